package upstream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/huangsam/newsline/internal/contract"
	"github.com/huangsam/newsline/schema"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type mockRetriever struct {
	mock.Mock
}

var _ contract.Retriever = &mockRetriever{} // Compile-time check

func (m *mockRetriever) Fetch(ctx context.Context, countryCode string) ([]schema.Document, error) {
	args := m.Called(ctx, countryCode)
	docs, _ := args.Get(0).([]schema.Document)
	return docs, args.Error(1)
}

// slowRetriever ignores its context and sleeps before answering.
type slowRetriever struct {
	delay time.Duration
}

func (s *slowRetriever) Fetch(_ context.Context, code string) ([]schema.Document, error) {
	time.Sleep(s.delay)
	return []schema.Document{{ArticleID: 1, CountryCode: code}}, nil
}

func docIDs(docs []schema.Document) []int {
	ids := make([]int, len(docs))
	for i, d := range docs {
		ids[i] = d.ArticleID
	}
	return ids
}

func TestFanOutMergesInCodeOrder(t *testing.T) {
	r := &mockRetriever{}
	r.On("Fetch", mock.Anything, "RU").Return([]schema.Document{{ArticleID: 1}, {ArticleID: 2}}, nil)
	r.On("Fetch", mock.Anything, "KZ").Return([]schema.Document{{ArticleID: 3}}, nil)
	r.On("Fetch", mock.Anything, "BY").Return([]schema.Document{{ArticleID: 4}}, nil)

	docs := FanOut(context.Background(), r, []string{"KZ", "RU", "BY"}, FanOutOptions{})
	assert.Equal(t, []int{3, 1, 2, 4}, docIDs(docs))
	r.AssertNumberOfCalls(t, "Fetch", 3)
}

func TestFanOutDegradesFailures(t *testing.T) {
	r := &mockRetriever{}
	r.On("Fetch", mock.Anything, "RU").Return([]schema.Document{{ArticleID: 1}}, nil)
	r.On("Fetch", mock.Anything, "KZ").Return(nil, errors.New("503 from upstream"))

	docs := FanOut(context.Background(), r, []string{"RU", "KZ"}, FanOutOptions{})
	assert.Equal(t, []int{1}, docIDs(docs))
}

func TestFanOutTimeout(t *testing.T) {
	slow := &slowRetriever{delay: 300 * time.Millisecond}

	start := time.Now()
	docs := FanOut(context.Background(), slow, []string{"RU", "KZ"}, FanOutOptions{Timeout: 20 * time.Millisecond})
	elapsed := time.Since(start)

	assert.Empty(t, docs)
	assert.Less(t, elapsed, 250*time.Millisecond, "timeout must hold even when the retriever ignores ctx")
}

func TestFanOutCancelledContext(t *testing.T) {
	r := &mockRetriever{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	docs := FanOut(ctx, r, []string{"RU"}, FanOutOptions{})
	assert.Empty(t, docs)
	r.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestFanOutRateLimited(t *testing.T) {
	r := &mockRetriever{}
	r.On("Fetch", mock.Anything, mock.Anything).Return([]schema.Document{{ArticleID: 1}}, nil)

	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	docs := FanOut(context.Background(), r, []string{"RU", "KZ"}, FanOutOptions{
		Timeout:       50 * time.Millisecond,
		MaxConcurrent: 1,
		Limiter:       limiter,
	})

	// The burst admits one fetch; the second cannot get a token before its deadline.
	assert.Len(t, docs, 1)
	r.AssertNumberOfCalls(t, "Fetch", 1)
}

func TestFanOutNothingToDo(t *testing.T) {
	assert.Nil(t, FanOut(context.Background(), nil, []string{"RU"}, FanOutOptions{}))
	assert.Nil(t, FanOut(context.Background(), &mockRetriever{}, nil, FanOutOptions{}))
}

const documentsJSON = `[
  {"articleId": 1, "title": "Oil exports rise", "source": "TASS", "publishedAt": "2026-03-15T10:00:00Z", "sentiment": 0.2, "countryCode": "RU"},
  {"articleId": 2, "title": "Oil output steady", "source": "Kazinform", "publishedAt": "2026-03-14T09:00:00Z", "sentiment": 0, "countryCode": "KZ", "narrativeId": 4}
]`

func TestFileRetriever(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/documents.json", []byte(documentsJSON), 0o644))

	r, err := NewFileRetriever(fs, "/data/documents.json")
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())

	t.Run("all documents for empty code", func(t *testing.T) {
		docs, err := r.Fetch(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, docIDs(docs))
		require.NotNil(t, docs[1].NarrativeID)
		assert.Equal(t, 4, *docs[1].NarrativeID)
	})

	t.Run("filter by code", func(t *testing.T) {
		docs, err := r.Fetch(context.Background(), " kz ")
		require.NoError(t, err)
		assert.Equal(t, []int{2}, docIDs(docs))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := r.Fetch(ctx, "RU")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFileRetrieverErrors(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := NewFileRetriever(fs, "/missing.json")
	assert.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "/bad.json", []byte("{not json"), 0o644))
	_, err = NewFileRetriever(fs, "/bad.json")
	assert.Error(t, err)
}

func TestStaticRetrieverWithFanOut(t *testing.T) {
	r := NewStaticRetriever([]schema.Document{
		{ArticleID: 1, CountryCode: "RU"},
		{ArticleID: 2, CountryCode: "KZ"},
		{ArticleID: 3, CountryCode: "RU"},
	})
	docs := FanOut(context.Background(), r, []string{"KZ", "RU"}, FanOutOptions{})
	assert.Equal(t, []int{2, 1, 3}, docIDs(docs))
}

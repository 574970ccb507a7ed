package blog

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
	"github.com/jwalitptl/dentalcare-api/internal/repository/memory"
	apperrors "github.com/jwalitptl/dentalcare-api/pkg/errors"
)

var admin = &model.Identity{ID: uuid.New(), Email: "admin@dentalcare.com", Role: model.RoleAdmin}

func seed(t *testing.T, svc *Service, title string, status model.PostStatus, category model.PostCategory) *model.BlogPost {
	t.Helper()
	post, err := svc.Create(context.Background(), &model.CreateBlogPostRequest{
		Title:    title,
		Content:  "Conteúdo de " + title,
		Status:   status,
		Category: category,
	}, admin)
	require.NoError(t, err)
	return post
}

func titles(posts []*model.BlogPost) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Title)
	}
	return out
}

func TestCreateDefaults(t *testing.T) {
	svc := NewService(memory.NewStore().BlogPosts(), nil, nil)

	post, err := svc.Create(context.Background(), &model.CreateBlogPostRequest{Title: "Olá", Content: "..."}, admin)
	require.NoError(t, err)
	assert.Equal(t, model.PostStatusDraft, post.Status)
	assert.Equal(t, model.PostCategoryPromotion, post.Category)
	require.NotNil(t, post.AuthorID)
	assert.Equal(t, admin.ID, *post.AuthorID)
}

func TestAnonymousSeesOnlyPublished(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore().BlogPosts(), nil, nil)

	published := seed(t, svc, "publicado", model.PostStatusPublished, model.PostCategoryEvent)
	draft := seed(t, svc, "rascunho", model.PostStatusDraft, model.PostCategoryEvent)
	seed(t, svc, "arquivado", model.PostStatusArchived, model.PostCategoryEvent)

	// Asking for drafts anonymously still yields only published posts.
	posts, err := svc.List(ctx, model.BlogPostFilters{Status: model.PostStatusDraft}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"publicado"}, titles(posts))

	_, err = svc.Get(ctx, draft.ID, nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	got, err := svc.Get(ctx, published.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, published.ID, got.ID)
}

func TestAdminSeesEverything(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore().BlogPosts(), nil, nil)

	seed(t, svc, "publicado", model.PostStatusPublished, model.PostCategoryEvent)
	draft := seed(t, svc, "rascunho", model.PostStatusDraft, model.PostCategoryEvent)

	posts, err := svc.List(ctx, model.BlogPostFilters{}, admin)
	require.NoError(t, err)
	assert.Equal(t, []string{"rascunho", "publicado"}, titles(posts))

	posts, err = svc.List(ctx, model.BlogPostFilters{Status: model.PostStatusDraft}, admin)
	require.NoError(t, err)
	assert.Equal(t, []string{"rascunho"}, titles(posts))

	got, err := svc.Get(ctx, draft.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, model.PostStatusDraft, got.Status)
}

func TestRelatedPostsQuery(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore().BlogPosts(), nil, nil)

	current := seed(t, svc, "atual", model.PostStatusPublished, model.PostCategoryEvent)
	for _, title := range []string{"e1", "e2", "e3", "e4"} {
		seed(t, svc, title, model.PostStatusPublished, model.PostCategoryEvent)
	}
	seed(t, svc, "promo", model.PostStatusPublished, model.PostCategoryPromotion)

	posts, err := svc.List(ctx, model.BlogPostFilters{
		Category: model.PostCategoryEvent,
		Exclude:  current.ID,
		Limit:    3,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"e4", "e3", "e2"}, titles(posts))
}

func TestInvalidFilters(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore().BlogPosts(), nil, nil)

	_, err := svc.List(ctx, model.BlogPostFilters{Category: "noticia"}, nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	_, err = svc.List(ctx, model.BlogPostFilters{Status: "hidden"}, admin)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	_, err = svc.List(ctx, model.BlogPostFilters{Limit: -1}, nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestUnpublishingEvictsCachedRead(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore().BlogPosts(), cache.New(time.Minute, time.Minute), nil)

	post := seed(t, svc, "publicado", model.PostStatusPublished, model.PostCategoryEvent)

	_, err := svc.Get(ctx, post.ID, nil)
	require.NoError(t, err)
	posts, err := svc.List(ctx, model.BlogPostFilters{}, nil)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	archived := model.PostStatusArchived
	_, err = svc.Update(ctx, post.ID, &model.UpdateBlogPostRequest{Status: &archived})
	require.NoError(t, err)

	_, err = svc.Get(ctx, post.ID, nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	posts, err = svc.List(ctx, model.BlogPostFilters{}, nil)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestDeleteMissing(t *testing.T) {
	svc := NewService(memory.NewStore().BlogPosts(), nil, nil)
	ok, err := svc.Delete(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}

type slowRepo struct {
	repository.BlogPostRepository
	lists atomic.Int32
}

func (r *slowRepo) List(ctx context.Context, f model.BlogPostFilters) ([]*model.BlogPost, error) {
	r.lists.Add(1)
	time.Sleep(50 * time.Millisecond)
	return r.BlogPostRepository.List(ctx, f)
}

func TestConcurrentAnonymousMissesShareOneLoad(t *testing.T) {
	repo := &slowRepo{BlogPostRepository: memory.NewStore().BlogPosts()}
	svc := NewService(repo, cache.New(time.Minute, time.Minute), nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.List(context.Background(), model.BlogPostFilters{}, nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Less(t, repo.lists.Load(), int32(8))
}

// pausedGetRepo holds its first Get after reading, until released, and
// reports a cancelled context as an error.
type pausedGetRepo struct {
	repository.BlogPostRepository
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newPausedGetRepo() *pausedGetRepo {
	return &pausedGetRepo{
		BlogPostRepository: memory.NewStore().BlogPosts(),
		entered:            make(chan struct{}),
		release:            make(chan struct{}),
	}
}

func (r *pausedGetRepo) Get(ctx context.Context, id uuid.UUID) (*model.BlogPost, error) {
	post, err := r.BlogPostRepository.Get(ctx, id)
	r.once.Do(func() {
		close(r.entered)
		<-r.release
	})
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return post, err
}

func TestUnpublishDuringAnonymousLoadIsNotCached(t *testing.T) {
	ctx := context.Background()
	repo := newPausedGetRepo()
	svc := NewService(repo, cache.New(time.Minute, time.Minute), nil)
	post := seed(t, svc, "publicado", model.PostStatusPublished, model.PostCategoryEvent)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := svc.Get(ctx, post.ID, nil)
		assert.NoError(t, err)
	}()

	<-repo.entered
	draft := model.PostStatusDraft
	_, err := svc.Update(ctx, post.ID, &model.UpdateBlogPostRequest{Status: &draft})
	require.NoError(t, err)
	close(repo.release)
	<-done

	_, err = svc.Get(ctx, post.ID, nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestSharedLoadSurvivesCallerCancellation(t *testing.T) {
	repo := newPausedGetRepo()
	svc := NewService(repo, cache.New(time.Minute, time.Minute), nil)
	post := seed(t, svc, "publicado", model.PostStatusPublished, model.PostCategoryEvent)

	ctx, cancel := context.WithCancel(context.Background())
	type result struct {
		post *model.BlogPost
		err  error
	}
	first := make(chan result, 1)
	go func() {
		p, err := svc.Get(ctx, post.ID, nil)
		first <- result{p, err}
	}()

	<-repo.entered
	cancel()
	close(repo.release)

	r := <-first
	require.NoError(t, r.err)
	assert.Equal(t, post.ID, r.post.ID)

	got, err := svc.Get(context.Background(), post.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)
}

package service

import (
	"context"
	"testing"
	"time"

	"Mu_Blog/internal/model"
)

func newPostFixture(t *testing.T) (*PostService, *fakePostStore, *fakeGroupStore, *fakeUserStore) {
	t.Helper()
	follows := newFakeFollowStore()
	posts := newFakePostStore(follows)
	groups := &fakeGroupStore{groups: []*model.Group{
		{ID: 1, Title: "测试分组", Slug: "test_slug", Description: "desc"},
	}}
	users := newFakeUserStore("auth")
	return NewPostService(posts, groups, users), posts, groups, users
}

func TestGroupListingThirteenPostsSplitsIntoTwoPages(t *testing.T) {
	svc, posts, _, _ := newPostFixture(t)
	ctx := context.Background()

	groupID := uint64(1)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 13; i++ {
		posts.add(1, "post", &groupID, base.Add(time.Duration(i)*time.Minute))
	}

	_, page1, err := svc.ListGroup(ctx, "test_slug", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(page1.Items) != 10 {
		t.Fatalf("page 1: want 10 items, got %d", len(page1.Items))
	}
	if !page1.HasNext || page1.HasPrev {
		t.Fatalf("page 1 flags wrong: prev=%v next=%v", page1.HasPrev, page1.HasNext)
	}

	_, page2, err := svc.ListGroup(ctx, "test_slug", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(page2.Items) != 3 {
		t.Fatalf("page 2: want 3 items, got %d", len(page2.Items))
	}
	if page2.TotalPages != 2 || !page2.HasPrev || page2.HasNext {
		t.Fatalf("page 2 meta wrong: %+v", page2)
	}
}

func TestListGroupUnknownSlug(t *testing.T) {
	svc, _, _, _ := newPostFixture(t)
	if _, _, err := svc.ListGroup(context.Background(), "no_such_slug", 1); err != ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestListProfileUnknownUser(t *testing.T) {
	svc, _, _, _ := newPostFixture(t)
	if _, _, err := svc.ListProfile(context.Background(), "nobody", 1); err != ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestPageNumberClampedToLastPage(t *testing.T) {
	svc, posts, _, _ := newPostFixture(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 13; i++ {
		posts.add(1, "post", nil, base.Add(time.Duration(i)*time.Minute))
	}

	page, err := svc.ListIndex(context.Background(), 99)
	if err != nil {
		t.Fatal(err)
	}
	if page.Number != 2 || len(page.Items) != 3 {
		t.Fatalf("want last page (2) with 3 items, got page %d with %d", page.Number, len(page.Items))
	}
}

func TestCreatePostRejectsEmptyText(t *testing.T) {
	svc, posts, _, _ := newPostFixture(t)
	if _, err := svc.CreatePost(context.Background(), 1, "   ", nil, ""); err != ErrEmptyText {
		t.Fatalf("want ErrEmptyText, got %v", err)
	}
	if len(posts.posts) != 0 {
		t.Fatal("empty post must not be written")
	}
}

func TestCreatePostRejectsUnknownGroup(t *testing.T) {
	svc, posts, _, _ := newPostFixture(t)
	badGroup := uint64(42)
	if _, err := svc.CreatePost(context.Background(), 1, "text", &badGroup, ""); err != ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if len(posts.posts) != 0 {
		t.Fatal("post with bad group must not be written")
	}
}

func TestEditPostByNonAuthorChangesNothing(t *testing.T) {
	svc, posts, _, _ := newPostFixture(t)
	ctx := context.Background()

	original := posts.add(1, "original text", nil, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	if _, err := svc.EditPost(ctx, 2, original.ID, "hacked", nil, nil); err != ErrNotAuthor {
		t.Fatalf("want ErrNotAuthor, got %v", err)
	}
	if len(posts.updates) != 0 {
		t.Fatal("non-author edit must not touch the store")
	}
	got, _ := posts.FindByID(ctx, original.ID)
	if got.Text != "original text" {
		t.Fatalf("text changed to %q", got.Text)
	}
}

func TestEditPostKeepsImageWhenNotReplaced(t *testing.T) {
	svc, posts, _, _ := newPostFixture(t)
	ctx := context.Background()

	p := &model.Post{Text: "with image", AuthorID: 1, Image: "old-key.png"}
	if err := posts.Create(ctx, p); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.EditPost(ctx, 1, p.ID, "new text", nil, nil); err != nil {
		t.Fatal(err)
	}
	got, _ := posts.FindByID(ctx, p.ID)
	if got.Image != "old-key.png" {
		t.Fatalf("image dropped on edit: %q", got.Image)
	}
	if got.Text != "new text" {
		t.Fatalf("text not updated: %q", got.Text)
	}
}

func TestEditPostDoesNotTouchPubDate(t *testing.T) {
	svc, posts, _, _ := newPostFixture(t)
	ctx := context.Background()

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	original := posts.add(1, "dated", nil, at)

	if _, err := svc.EditPost(ctx, 1, original.ID, "edited", nil, nil); err != nil {
		t.Fatal(err)
	}
	got, _ := posts.FindByID(ctx, original.ID)
	if !got.CreatedAt.Equal(at) {
		t.Fatalf("pub date changed: %v", got.CreatedAt)
	}
}

func TestAddCommentRequiresExistingPost(t *testing.T) {
	follows := newFakeFollowStore()
	posts := newFakePostStore(follows)
	comments := &fakeCommentStore{}
	svc := NewCommentService(comments, posts)

	if _, err := svc.AddComment(context.Background(), 1, 42, "hi"); err != ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if len(comments.list) != 0 {
		t.Fatal("comment on missing post must not be written")
	}
}

func TestAddCommentRejectsEmptyText(t *testing.T) {
	follows := newFakeFollowStore()
	posts := newFakePostStore(follows)
	posts.add(1, "post", nil, time.Now())
	comments := &fakeCommentStore{}
	svc := NewCommentService(comments, posts)

	if _, err := svc.AddComment(context.Background(), 1, 1, "  "); err != ErrEmptyText {
		t.Fatalf("want ErrEmptyText, got %v", err)
	}
}

type fakeCommentStore struct {
	list []model.Comment
}

func (f *fakeCommentStore) Create(_ context.Context, comment *model.Comment) error {
	comment.ID = uint64(len(f.list) + 1)
	f.list = append(f.list, *comment)
	return nil
}

func (f *fakeCommentStore) ListByPost(_ context.Context, postID uint64) ([]model.Comment, error) {
	var out []model.Comment
	for i := len(f.list) - 1; i >= 0; i-- {
		if f.list[i].PostID == postID {
			out = append(out, f.list[i])
		}
	}
	return out, nil
}

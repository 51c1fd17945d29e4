package service

import (
	"context"
	"sort"
	"time"

	"Mu_Blog/internal/model"

	"gorm.io/gorm"
)

// 内存版仓储，语义对齐 mysql 实现：列表新帖在前，同刻按 id 倒序

type fakeFollowStore struct {
	edges map[[2]uint64]bool
}

func newFakeFollowStore() *fakeFollowStore {
	return &fakeFollowStore{edges: make(map[[2]uint64]bool)}
}

func (f *fakeFollowStore) Follow(_ context.Context, followerID, authorID uint64) (bool, error) {
	key := [2]uint64{followerID, authorID}
	if f.edges[key] {
		return false, nil
	}
	f.edges[key] = true
	return true, nil
}

func (f *fakeFollowStore) Unfollow(_ context.Context, followerID, authorID uint64) (bool, error) {
	key := [2]uint64{followerID, authorID}
	if !f.edges[key] {
		return false, nil
	}
	delete(f.edges, key)
	return true, nil
}

func (f *fakeFollowStore) IsFollowing(_ context.Context, followerID, authorID uint64) (bool, error) {
	return f.edges[[2]uint64{followerID, authorID}], nil
}

func (f *fakeFollowStore) followedBy(followerID uint64) map[uint64]bool {
	out := make(map[uint64]bool)
	for key := range f.edges {
		if key[0] == followerID {
			out[key[1]] = true
		}
	}
	return out
}

type fakePostStore struct {
	posts   []model.Post
	follows *fakeFollowStore
	nextID  uint64
	updates []model.Post
}

func newFakePostStore(follows *fakeFollowStore) *fakePostStore {
	return &fakePostStore{follows: follows}
}

func (f *fakePostStore) add(authorID uint64, text string, groupID *uint64, at time.Time) model.Post {
	f.nextID++
	p := model.Post{
		ID:        f.nextID,
		Text:      text,
		AuthorID:  authorID,
		GroupID:   groupID,
		CreatedAt: at,
		Author:    model.User{ID: authorID},
	}
	f.posts = append(f.posts, p)
	return p
}

func sortNewestFirst(list []model.Post) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
}

func window(list []model.Post, offset, limit int) []model.Post {
	if offset >= len(list) {
		return nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}

func (f *fakePostStore) filtered(keep func(model.Post) bool) []model.Post {
	var out []model.Post
	for _, p := range f.posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	sortNewestFirst(out)
	return out
}

func (f *fakePostStore) Create(_ context.Context, post *model.Post) error {
	f.nextID++
	post.ID = f.nextID
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	f.posts = append(f.posts, *post)
	return nil
}

func (f *fakePostStore) FindByID(_ context.Context, id uint64) (*model.Post, error) {
	for _, p := range f.posts {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePostStore) Update(_ context.Context, post *model.Post) error {
	for i := range f.posts {
		if f.posts[i].ID == post.ID {
			f.posts[i].Text = post.Text
			f.posts[i].GroupID = post.GroupID
			f.posts[i].Image = post.Image
			f.updates = append(f.updates, f.posts[i])
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakePostStore) ListAll(_ context.Context, offset, limit int) ([]model.Post, error) {
	return window(f.filtered(func(model.Post) bool { return true }), offset, limit), nil
}

func (f *fakePostStore) CountAll(_ context.Context) (int64, error) {
	return int64(len(f.posts)), nil
}

func (f *fakePostStore) ListByGroup(_ context.Context, groupID uint64, offset, limit int) ([]model.Post, error) {
	return window(f.filtered(func(p model.Post) bool {
		return p.GroupID != nil && *p.GroupID == groupID
	}), offset, limit), nil
}

func (f *fakePostStore) CountByGroup(_ context.Context, groupID uint64) (int64, error) {
	return int64(len(f.filtered(func(p model.Post) bool {
		return p.GroupID != nil && *p.GroupID == groupID
	}))), nil
}

func (f *fakePostStore) ListByAuthor(_ context.Context, authorID uint64, offset, limit int) ([]model.Post, error) {
	return window(f.filtered(func(p model.Post) bool { return p.AuthorID == authorID }), offset, limit), nil
}

func (f *fakePostStore) CountByAuthor(_ context.Context, authorID uint64) (int64, error) {
	return int64(len(f.filtered(func(p model.Post) bool { return p.AuthorID == authorID }))), nil
}

func (f *fakePostStore) ListFeed(_ context.Context, followerID uint64, offset, limit int) ([]model.Post, error) {
	followed := f.follows.followedBy(followerID)
	return window(f.filtered(func(p model.Post) bool { return followed[p.AuthorID] }), offset, limit), nil
}

func (f *fakePostStore) CountFeed(_ context.Context, followerID uint64) (int64, error) {
	followed := f.follows.followedBy(followerID)
	return int64(len(f.filtered(func(p model.Post) bool { return followed[p.AuthorID] }))), nil
}

type fakeUserStore struct {
	users map[string]*model.User
}

func newFakeUserStore(names ...string) *fakeUserStore {
	f := &fakeUserStore{users: make(map[string]*model.User)}
	for i, name := range names {
		f.users[name] = &model.User{ID: uint64(i + 1), Username: name, Email: name + "@example.com"}
	}
	return f
}

func (f *fakeUserStore) Create(user *model.User) error {
	user.ID = uint64(len(f.users) + 1)
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserStore) FindByLogin(login string) (*model.User, error) {
	return f.FindByUsername(login)
}

func (f *fakeUserStore) FindByUsername(username string) (*model.User, error) {
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) FindByID(id uint64) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) FindByEmail(email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) UpdatePassword(user *model.User, newPassword string) error {
	user.Password = newPassword
	return nil
}

type fakeGroupStore struct {
	groups []*model.Group
}

func (f *fakeGroupStore) FindBySlug(slug string) (*model.Group, error) {
	for _, g := range f.groups {
		if g.Slug == slug {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeGroupStore) FindByID(id uint64) (*model.Group, error) {
	for _, g := range f.groups {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeGroupStore) List() ([]model.Group, error) {
	var out []model.Group
	for _, g := range f.groups {
		out = append(out, *g)
	}
	return out, nil
}

package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/faqhub/knowledge-base/internal/core/domain"
	"github.com/faqhub/knowledge-base/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

var idSeq struct {
	sync.Mutex
	n int
}

func nextID() string {
	idSeq.Lock()
	defer idSeq.Unlock()
	idSeq.n++
	return fmt.Sprintf("%024x", idSeq.n)
}

func checkID(id string) error {
	if b, err := hex.DecodeString(id); err != nil || len(b) != 12 {
		return &domain.InvalidIDError{Field: "id", Value: id}
	}
	return nil
}

// --- accounts ---

type stubAccountRepo struct {
	byID map[string]*domain.Account
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byID: map[string]*domain.Account{}}
}

func cloneAccount(a *domain.Account) *domain.Account {
	c := *a
	return &c
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	for _, existing := range r.byID {
		if existing.Email == a.Email {
			return nil, &domain.DuplicateKeyError{Field: "email", Value: a.Email}
		}
	}
	c := cloneAccount(a)
	c.ID = nextID()
	r.byID[c.ID] = c
	return cloneAccount(c), nil
}

func (r *stubAccountRepo) FindAll(context.Context) ([]*domain.Account, error) {
	out := make([]*domain.Account, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, cloneAccount(a))
	}
	return out, nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	a, ok := r.byID[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "user", ID: id}
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) FindByIDAndUpdate(ctx context.Context, id string, patch ports.Patch) (*domain.Account, error) {
	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}
	a := r.byID[id]
	for k, v := range patch {
		switch k {
		case "name":
			a.Name = v.(string)
		case "email":
			a.Email = v.(string)
		case "role":
			a.Role = v.(string)
		case "active":
			a.Active = v.(bool)
		case "password_hash":
			a.PasswordHash = v.(string)
		case "password_changed_at":
			t := v.(time.Time)
			a.PasswordChangedAt = &t
		case "updated_at":
			a.UpdatedAt = v.(time.Time)
		default:
			return nil, fmt.Errorf("unexpected account field %q", k)
		}
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) FindByIDAndDelete(ctx context.Context, id string) (*domain.Account, error) {
	a, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	delete(r.byID, id)
	return a, nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range r.byID {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, &domain.NotFoundError{Resource: "user", ID: email}
}

// --- categories and answers ---

type stubContentStore struct {
	categories map[string]*domain.Category
	answers    map[string]*domain.Answer

	addErr          error
	removeErr       error
	answerDeleteErr error
}

func newStubContentStore() *stubContentStore {
	return &stubContentStore{
		categories: map[string]*domain.Category{},
		answers:    map[string]*domain.Answer{},
	}
}

func cloneCategory(c *domain.Category) *domain.Category {
	out := *c
	out.Answers = append([]string{}, c.Answers...)
	return &out
}

func cloneAnswer(a *domain.Answer) *domain.Answer {
	out := *a
	return &out
}

type stubCategoryRepo struct{ s *stubContentStore }

func (r stubCategoryRepo) Create(_ context.Context, c *domain.Category) (*domain.Category, error) {
	for _, existing := range r.s.categories {
		if existing.Name == c.Name {
			return nil, &domain.DuplicateKeyError{Field: "name", Value: c.Name}
		}
	}
	out := cloneCategory(c)
	out.ID = nextID()
	r.s.categories[out.ID] = out
	return cloneCategory(out), nil
}

func (r stubCategoryRepo) FindAll(context.Context) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, cloneCategory(c))
	}
	return out, nil
}

func (r stubCategoryRepo) FindByID(_ context.Context, id string) (*domain.Category, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	c, ok := r.s.categories[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "category", ID: id}
	}
	return cloneCategory(c), nil
}

func (r stubCategoryRepo) FindByIDAndUpdate(ctx context.Context, id string, patch ports.Patch) (*domain.Category, error) {
	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}
	c := r.s.categories[id]
	for k, v := range patch {
		switch k {
		case "name":
			c.Name = v.(string)
		case "name_ar":
			c.NameAr = v.(string)
		case "updated_at":
			c.UpdatedAt = v.(time.Time)
		default:
			return nil, fmt.Errorf("unexpected category field %q", k)
		}
	}
	return cloneCategory(c), nil
}

func (r stubCategoryRepo) FindByIDAndDelete(ctx context.Context, id string) (*domain.Category, error) {
	c, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	delete(r.s.categories, id)
	return c, nil
}

func (r stubCategoryRepo) FindByIDPopulated(ctx context.Context, id, relation string) (*domain.CategoryWithAnswers, error) {
	if relation != "answers" {
		return nil, errors.New("unknown relation")
	}
	c, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &domain.CategoryWithAnswers{ID: c.ID, Name: c.Name, NameAr: c.NameAr, Answers: []*domain.Answer{}}
	for _, aid := range c.Answers {
		if a, ok := r.s.answers[aid]; ok {
			out.Answers = append(out.Answers, cloneAnswer(a))
		}
	}
	return out, nil
}

func (r stubCategoryRepo) Exists(_ context.Context, id string) (bool, error) {
	if err := checkID(id); err != nil {
		return false, err
	}
	_, ok := r.s.categories[id]
	return ok, nil
}

func (r stubCategoryRepo) AddAnswer(_ context.Context, categoryID, answerID string) error {
	if r.s.addErr != nil {
		return r.s.addErr
	}
	c, ok := r.s.categories[categoryID]
	if !ok {
		return &domain.NotFoundError{Resource: "category", ID: categoryID}
	}
	for _, id := range c.Answers {
		if id == answerID {
			return nil
		}
	}
	c.Answers = append(c.Answers, answerID)
	return nil
}

func (r stubCategoryRepo) RemoveAnswer(_ context.Context, categoryID, answerID string) error {
	if r.s.removeErr != nil {
		return r.s.removeErr
	}
	c, ok := r.s.categories[categoryID]
	if !ok {
		return &domain.NotFoundError{Resource: "category", ID: categoryID}
	}
	kept := c.Answers[:0]
	for _, id := range c.Answers {
		if id != answerID {
			kept = append(kept, id)
		}
	}
	c.Answers = kept
	return nil
}

type stubAnswerRepo struct{ s *stubContentStore }

func (r stubAnswerRepo) Create(_ context.Context, a *domain.Answer) (*domain.Answer, error) {
	out := cloneAnswer(a)
	out.ID = nextID()
	r.s.answers[out.ID] = out
	return cloneAnswer(out), nil
}

func (r stubAnswerRepo) FindAll(context.Context) ([]*domain.Answer, error) {
	out := make([]*domain.Answer, 0, len(r.s.answers))
	for _, a := range r.s.answers {
		out = append(out, cloneAnswer(a))
	}
	return out, nil
}

func (r stubAnswerRepo) FindByID(_ context.Context, id string) (*domain.Answer, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	a, ok := r.s.answers[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "answer", ID: id}
	}
	return cloneAnswer(a), nil
}

func (r stubAnswerRepo) FindByIDAndUpdate(ctx context.Context, id string, patch ports.Patch) (*domain.Answer, error) {
	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}
	a := r.s.answers[id]
	for k, v := range patch {
		s := v.(string)
		switch k {
		case "title":
			a.Title = s
		case "title_ar":
			a.TitleAr = s
		case "content":
			a.Content = s
		case "content_ar":
			a.ContentAr = s
		case "category":
			a.Category = s
		default:
			return nil, fmt.Errorf("unexpected answer field %q", k)
		}
	}
	return cloneAnswer(a), nil
}

func (r stubAnswerRepo) FindByIDAndDelete(ctx context.Context, id string) (*domain.Answer, error) {
	if r.s.answerDeleteErr != nil {
		return nil, r.s.answerDeleteErr
	}
	a, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	delete(r.s.answers, id)
	return a, nil
}

func (r stubAnswerRepo) FindByCategory(_ context.Context, categoryID string) ([]*domain.Answer, error) {
	if err := checkID(categoryID); err != nil {
		return nil, err
	}
	var out []*domain.Answer
	for _, a := range r.s.answers {
		if a.Category == categoryID {
			out = append(out, cloneAnswer(a))
		}
	}
	return out, nil
}

// --- credentials ---

// fakeCredentials avoids bcrypt cost in tests that are not about hashing.
type fakeCredentials struct {
	*Credentials
}

func newFakeCredentials(now func() time.Time) *fakeCredentials {
	c := NewCredentials("test-secret", time.Hour)
	if now != nil {
		c.now = now
	}
	return &fakeCredentials{Credentials: c}
}

func (f *fakeCredentials) Hash(plaintext string) (string, error) { return "hashed:" + plaintext, nil }

func (f *fakeCredentials) Verify(plaintext, hash string) bool { return hash == "hashed:"+plaintext }

// --- throttle ---

type stubThrottle struct {
	blocked  bool
	allowErr error
	fails    map[string]int
	resets   []string
}

func newStubThrottle() *stubThrottle {
	return &stubThrottle{fails: map[string]int{}}
}

func (t *stubThrottle) Allow(context.Context, string) (bool, error) {
	return !t.blocked, t.allowErr
}

func (t *stubThrottle) Fail(_ context.Context, key string) error {
	t.fails[key]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, key string) error {
	t.resets = append(t.resets, key)
	return nil
}

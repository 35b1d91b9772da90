package service

import (
	"context"
	"regexp"
	"strconv"
	"sync"

	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/mail"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/model"
	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/repository"
)

// memUsers is an in-memory UserRepository for flow tests that span several calls.
type memUsers struct {
	mu     sync.Mutex
	nextID int
	byID   map[model.ID]*model.User
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[model.ID]*model.User{}}
}

func (r *memUsers) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email || u.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	r.nextID++
	user.ID = model.ID("u" + strconv.Itoa(r.nextID))
	cp := *user
	r.byID[user.ID] = &cp
	return nil
}

func (r *memUsers) FindByID(_ context.Context, id model.ID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUsers) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUsers) mutate(id model.ID, fn func(u *model.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(u)
	return nil
}

func (r *memUsers) SetVerificationCode(_ context.Context, id model.ID, code model.CodeCommitment) error {
	return r.mutate(id, func(u *model.User) { u.Verification = &code })
}

func (r *memUsers) SetPasswordResetCode(_ context.Context, id model.ID, code model.CodeCommitment) error {
	return r.mutate(id, func(u *model.User) { u.PasswordReset = &code })
}

func (r *memUsers) UpdatePassword(_ context.Context, id model.ID, passwordHash string) error {
	return r.mutate(id, func(u *model.User) { u.PasswordHash = passwordHash })
}

func (r *memUsers) ConsumeVerificationCode(_ context.Context, id model.ID, hash string) (bool, error) {
	consumed := false
	err := r.mutate(id, func(u *model.User) {
		if u.Verification != nil && u.Verification.Hash == hash {
			u.Verified = true
			u.Verification = nil
			consumed = true
		}
	})
	return consumed, err
}

func (r *memUsers) ConsumePasswordResetCode(_ context.Context, id model.ID, hash, passwordHash string) (bool, error) {
	consumed := false
	err := r.mutate(id, func(u *model.User) {
		if u.PasswordReset != nil && u.PasswordReset.Hash == hash {
			u.PasswordHash = passwordHash
			u.PasswordReset = nil
			consumed = true
		}
	})
	return consumed, err
}

var codePattern = regexp.MustCompile(`<h1>(\d{6})</h1>`)

// inbox records delivered messages and hands back the last code per address.
type inbox struct {
	mu   sync.Mutex
	last map[string]string
}

func newInbox() *inbox {
	return &inbox{last: map[string]string{}}
}

func (b *inbox) Send(_ context.Context, msg mail.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m := codePattern.FindStringSubmatch(msg.HTML); m != nil {
		b.last[msg.To] = m[1]
	}
	return nil
}

func (b *inbox) code(address string) model.Code {
	b.mu.Lock()
	defer b.mu.Unlock()
	return model.Code(b.last[address])
}

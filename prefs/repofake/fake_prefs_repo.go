package fakeprefsrepo

import (
	"sync"

	"github.com/jrsteele09/go-auth-client/prefs"
)

var _ prefs.Repo = (*FakePrefsRepo)(nil)

// FakePrefsRepo is an in-memory prefs.Repo for tests. Errors can be forced
// per operation to exercise failure paths.
type FakePrefsRepo struct {
	values map[string]string
	lock   sync.RWMutex

	GetErr    error
	PutErr    error
	DeleteErr error
}

func NewFakePrefsRepo() *FakePrefsRepo {
	return &FakePrefsRepo{
		values: make(map[string]string),
	}
}

func (pr *FakePrefsRepo) Get(key string) (string, bool, error) {
	pr.lock.RLock()
	defer pr.lock.RUnlock()

	if pr.GetErr != nil {
		return "", false, pr.GetErr
	}
	value, ok := pr.values[key]
	return value, ok, nil
}

func (pr *FakePrefsRepo) Put(key, value string) error {
	pr.lock.Lock()
	defer pr.lock.Unlock()

	if pr.PutErr != nil {
		return pr.PutErr
	}
	pr.values[key] = value
	return nil
}

func (pr *FakePrefsRepo) Delete(key string) error {
	pr.lock.Lock()
	defer pr.lock.Unlock()

	if pr.DeleteErr != nil {
		return pr.DeleteErr
	}
	delete(pr.values, key)
	return nil
}

// Len reports how many keys are stored.
func (pr *FakePrefsRepo) Len() int {
	pr.lock.RLock()
	defer pr.lock.RUnlock()
	return len(pr.values)
}

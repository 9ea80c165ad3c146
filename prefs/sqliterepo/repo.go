// Package sqliterepo persists preferences in a local SQLite database so a
// refresh token survives process restarts.
package sqliterepo

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/jrsteele09/go-auth-client/prefs"
)

const dbFileName = "authprefs.db"

var _ prefs.Repo = (*Repo)(nil)

// preference is one stored key/value pair. Namespace is part of the primary
// key so several clients can share one database file.
type preference struct {
	Namespace string `gorm:"primaryKey;size:128"`
	Key       string `gorm:"primaryKey;size:128;column:key"`
	Value     string
}

// Repo is a prefs.Repo backed by GORM over SQLite.
type Repo struct {
	db        *gorm.DB
	namespace string
}

// New opens (or creates) the preference database under dataDir and migrates
// its schema.
func New(dataDir string) (*Repo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "[sqliterepo.New] failed to create data folder")
	}
	dbPath := filepath.Join(dataDir, dbFileName)

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "[sqliterepo.New] failed to open database")
	}

	if err := db.AutoMigrate(&preference{}); err != nil {
		return nil, errors.Wrap(err, "[sqliterepo.New] failed to migrate database")
	}

	return &Repo{
		db:        db,
		namespace: prefs.Namespace,
	}, nil
}

func (r *Repo) Get(key string) (string, bool, error) {
	var pref preference
	result := r.db.First(&pref, "namespace = ? AND key = ?", r.namespace, key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, errors.Wrapf(result.Error, "[sqliterepo.Get] key %q", key)
	}
	return pref.Value, true, nil
}

func (r *Repo) Put(key, value string) error {
	pref := preference{
		Namespace: r.namespace,
		Key:       key,
		Value:     value,
	}
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&pref)
	if result.Error != nil {
		return errors.Wrapf(result.Error, "[sqliterepo.Put] key %q", key)
	}
	return nil
}

func (r *Repo) Delete(key string) error {
	result := r.db.Delete(&preference{}, "namespace = ? AND key = ?", r.namespace, key)
	if result.Error != nil {
		return errors.Wrapf(result.Error, "[sqliterepo.Delete] key %q", key)
	}
	return nil
}

// Close releases the underlying database handle.
func (r *Repo) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

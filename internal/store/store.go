package store

import (
	"gorm.io/gorm"
)

type Store interface {
	Job() Job
	Video() Video
	Setting() Setting
	InitialMigration() error
	Close() error
}

type DataStore struct {
	db      *gorm.DB
	job     Job
	video   Video
	setting Setting
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:      db,
		job:     NewJobRegistry(),
		video:   NewVideoStore(db),
		setting: NewSettingStore(db),
	}
}

func (s *DataStore) Job() Job {
	return s.job
}

func (s *DataStore) Video() Video {
	return s.video
}

func (s *DataStore) Setting() Setting {
	return s.setting
}

func (s *DataStore) InitialMigration() error {
	if err := s.video.InitialMigration(); err != nil {
		return err
	}
	return s.setting.InitialMigration()
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

package store

import (
	"time"

	"gorm.io/gorm"
)

type BaseQuerier struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
}

type VideoQueryFilter BaseQuerier

func NewVideoQueryFilter() *VideoQueryFilter {
	return &VideoQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (qf *VideoQueryFilter) ByUploaded(uploaded bool) *VideoQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("uploaded = ?", uploaded)
	})
	return qf
}

func (qf *VideoQueryFilter) ByCreatedAfter(t time.Time) *VideoQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("created_at >= ?", t)
	})
	return qf
}

func (qf *VideoQueryFilter) ByTitleSearch(search string) *VideoQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("lower(title) LIKE ?", "%"+search+"%")
	})
	return qf
}

type VideoQueryOptions BaseQuerier

func NewVideoQueryOptions() *VideoQueryOptions {
	return &VideoQueryOptions{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (o *VideoQueryOptions) WithLimit(n int) *VideoQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Limit(n)
	})
	return o
}

package store_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/shortsmith/shortsmith/internal/config"
	"github.com/shortsmith/shortsmith/internal/store"
)

var _ = Describe("setting store", func() {
	var s store.Store

	BeforeEach(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		Expect(s.InitialMigration()).To(BeNil())
	})

	AfterEach(func() {
		_ = s.Close()
	})

	It("returns not found for unknown keys", func() {
		_, err := s.Setting().Get(context.TODO(), "missing")
		Expect(err).To(MatchError(store.ErrRecordNotFound))
	})

	It("sets and reads back a value", func() {
		Expect(s.Setting().Set(context.TODO(), "shorts.style", "educational")).To(BeNil())

		value, err := s.Setting().Get(context.TODO(), "shorts.style")
		Expect(err).To(BeNil())
		Expect(value).To(Equal("educational"))
	})

	It("overwrites an existing key", func() {
		Expect(s.Setting().Set(context.TODO(), "shorts.style", "educational")).To(BeNil())
		Expect(s.Setting().Set(context.TODO(), "shorts.style", "entertaining")).To(BeNil())

		value, err := s.Setting().Get(context.TODO(), "shorts.style")
		Expect(err).To(BeNil())
		Expect(value).To(Equal("entertaining"))
	})
})

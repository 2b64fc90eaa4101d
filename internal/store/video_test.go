package store_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/shortsmith/shortsmith/internal/config"
	"github.com/shortsmith/shortsmith/internal/store"
	"github.com/shortsmith/shortsmith/internal/store/model"
)

var _ = Describe("video store", Ordered, func() {
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

	Context("create", func() {
		It("assigns an id and persists the row", func() {
			video, err := s.Video().Create(context.TODO(), model.Video{
				Title: "Space Facts",
				Path:  "space_facts_short.mp4",
				Niche: "space",
			})
			Expect(err).To(BeNil())
			Expect(video.ID).NotTo(BeEmpty())

			fetched, err := s.Video().Get(context.TODO(), video.ID)
			Expect(err).To(BeNil())
			Expect(fetched.Title).To(Equal("Space Facts"))
			Expect(fetched.Uploaded).To(BeFalse())
		})

		It("rejects a duplicate path", func() {
			_, err := s.Video().Create(context.TODO(), model.Video{Title: "one", Path: "same.mp4"})
			Expect(err).To(BeNil())

			_, err = s.Video().Create(context.TODO(), model.Video{Title: "two", Path: "same.mp4"})
			Expect(err).To(MatchError(store.ErrDuplicateKey))
		})
	})

	Context("get by path", func() {
		It("finds the row by file name", func() {
			created, err := s.Video().Create(context.TODO(), model.Video{Title: "one", Path: "one.mp4"})
			Expect(err).To(BeNil())

			video, err := s.Video().GetByPath(context.TODO(), "one.mp4")
			Expect(err).To(BeNil())
			Expect(video.ID).To(Equal(created.ID))
		})

		It("returns not found for unknown paths", func() {
			_, err := s.Video().GetByPath(context.TODO(), "missing.mp4")
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("mark uploaded", func() {
		It("flips the flag and records the platform id", func() {
			created, err := s.Video().Create(context.TODO(), model.Video{Title: "one", Path: "one.mp4"})
			Expect(err).To(BeNil())

			video, err := s.Video().MarkUploaded(context.TODO(), created.ID, "yt123")
			Expect(err).To(BeNil())
			Expect(video.Uploaded).To(BeTrue())
			Expect(video.VideoID).NotTo(BeNil())
			Expect(*video.VideoID).To(Equal("yt123"))
		})

		It("refuses a second upload", func() {
			created, err := s.Video().Create(context.TODO(), model.Video{Title: "one", Path: "one.mp4"})
			Expect(err).To(BeNil())

			_, err = s.Video().MarkUploaded(context.TODO(), created.ID, "yt123")
			Expect(err).To(BeNil())

			_, err = s.Video().MarkUploaded(context.TODO(), created.ID, "yt456")
			Expect(err).To(MatchError(store.ErrAlreadyUploaded))
		})

		It("returns not found for unknown ids", func() {
			_, err := s.Video().MarkUploaded(context.TODO(), "missing", "yt123")
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("list", func() {
		It("filters by upload state", func() {
			created, err := s.Video().Create(context.TODO(), model.Video{Title: "one", Path: "one.mp4"})
			Expect(err).To(BeNil())
			_, err = s.Video().Create(context.TODO(), model.Video{Title: "two", Path: "two.mp4"})
			Expect(err).To(BeNil())

			_, err = s.Video().MarkUploaded(context.TODO(), created.ID, "yt123")
			Expect(err).To(BeNil())

			uploaded, err := s.Video().List(context.TODO(), store.NewVideoQueryFilter().ByUploaded(true), nil)
			Expect(err).To(BeNil())
			Expect(uploaded).To(HaveLen(1))
			Expect(uploaded[0].ID).To(Equal(created.ID))

			local, err := s.Video().List(context.TODO(), store.NewVideoQueryFilter().ByUploaded(false), nil)
			Expect(err).To(BeNil())
			Expect(local).To(HaveLen(1))
		})

		It("filters by title search", func() {
			_, err := s.Video().Create(context.TODO(), model.Video{Title: "Amazing Space Facts", Path: "one.mp4"})
			Expect(err).To(BeNil())
			_, err = s.Video().Create(context.TODO(), model.Video{Title: "History Bites", Path: "two.mp4"})
			Expect(err).To(BeNil())

			videos, err := s.Video().List(context.TODO(), store.NewVideoQueryFilter().ByTitleSearch("space"), nil)
			Expect(err).To(BeNil())
			Expect(videos).To(HaveLen(1))
			Expect(videos[0].Title).To(Equal("Amazing Space Facts"))
		})

		It("honors the result limit", func() {
			for _, path := range []string{"one.mp4", "two.mp4", "three.mp4"} {
				_, err := s.Video().Create(context.TODO(), model.Video{Title: path, Path: path})
				Expect(err).To(BeNil())
			}

			videos, err := s.Video().List(context.TODO(), nil, store.NewVideoQueryOptions().WithLimit(2))
			Expect(err).To(BeNil())
			Expect(videos).To(HaveLen(2))
		})
	})

	Context("counts", func() {
		It("counts all rows and today's rows", func() {
			_, err := s.Video().Create(context.TODO(), model.Video{Title: "fresh", Path: "fresh.mp4"})
			Expect(err).To(BeNil())
			_, err = s.Video().Create(context.TODO(), model.Video{Title: "old", Path: "old.mp4"})
			Expect(err).To(BeNil())

			total, today, err := s.Video().Counts(context.TODO())
			Expect(err).To(BeNil())
			Expect(total).To(Equal(int64(2)))
			Expect(today).To(Equal(int64(2)))
		})
	})

	Context("delete", func() {
		It("removes the row", func() {
			created, err := s.Video().Create(context.TODO(), model.Video{Title: "one", Path: "one.mp4"})
			Expect(err).To(BeNil())

			Expect(s.Video().Delete(context.TODO(), created.ID)).To(BeNil())

			_, err = s.Video().Get(context.TODO(), created.ID)
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})

		It("returns not found for unknown ids", func() {
			Expect(s.Video().Delete(context.TODO(), "missing")).To(MatchError(store.ErrRecordNotFound))
		})
	})
})

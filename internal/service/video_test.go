package service_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/shortsmith/shortsmith/internal/config"
	"github.com/shortsmith/shortsmith/internal/service"
	"github.com/shortsmith/shortsmith/internal/store"
	"github.com/shortsmith/shortsmith/internal/store/model"
)

var _ = Describe("video service", func() {
	var (
		s            store.Store
		svc          *service.VideoService
		outputDir    string
		thumbnailDir string
	)

	BeforeEach(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())
		s = store.NewStore(db)
		Expect(s.InitialMigration()).To(BeNil())

		base := GinkgoT().TempDir()
		outputDir = filepath.Join(base, "output")
		thumbnailDir = filepath.Join(base, "thumbnails")
		Expect(os.MkdirAll(outputDir, 0o755)).To(BeNil())
		Expect(os.MkdirAll(thumbnailDir, 0o755)).To(BeNil())

		svc = service.NewVideoService(s, outputDir, thumbnailDir)
	})

	AfterEach(func() {
		_ = s.Close()
	})

	Context("list", func() {
		BeforeEach(func() {
			created, err := s.Video().Create(context.TODO(), model.Video{Title: "Space Facts", Path: "space.mp4"})
			Expect(err).To(BeNil())
			_, err = s.Video().Create(context.TODO(), model.Video{Title: "History Bites", Path: "history.mp4"})
			Expect(err).To(BeNil())
			_, err = s.Video().MarkUploaded(context.TODO(), created.ID, "yt123")
			Expect(err).To(BeNil())
		})

		It("lists everything without filters", func() {
			videos, err := svc.List(context.TODO(), "", "", "")
			Expect(err).To(BeNil())
			Expect(videos).To(HaveLen(2))
		})

		It("filters by upload state", func() {
			videos, err := svc.List(context.TODO(), "uploaded", "", "")
			Expect(err).To(BeNil())
			Expect(videos).To(HaveLen(1))
			Expect(videos[0].Title).To(Equal("Space Facts"))

			videos, err = svc.List(context.TODO(), "local", "", "")
			Expect(err).To(BeNil())
			Expect(videos).To(HaveLen(1))
			Expect(videos[0].Title).To(Equal("History Bites"))
		})

		It("searches the title case-insensitively", func() {
			videos, err := svc.List(context.TODO(), "", "", "SPACE")
			Expect(err).To(BeNil())
			Expect(videos).To(HaveLen(1))
		})

		It("rejects unknown filter values", func() {
			_, err := svc.List(context.TODO(), "bogus", "", "")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrValidation{}))

			_, err = svc.List(context.TODO(), "", "yesterday", "")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrValidation{}))
		})
	})

	Context("delete", func() {
		It("removes the row and the backing files", func() {
			Expect(os.WriteFile(filepath.Join(outputDir, "space.mp4"), []byte("video"), 0o644)).To(BeNil())
			Expect(os.WriteFile(filepath.Join(thumbnailDir, "space.png"), []byte("png"), 0o644)).To(BeNil())

			created, err := s.Video().Create(context.TODO(), model.Video{
				Title:     "Space Facts",
				Path:      "space.mp4",
				Thumbnail: "space.png",
			})
			Expect(err).To(BeNil())

			Expect(svc.Delete(context.TODO(), created.ID)).To(BeNil())

			_, err = s.Video().Get(context.TODO(), created.ID)
			Expect(err).To(MatchError(store.ErrRecordNotFound))

			_, err = os.Stat(filepath.Join(outputDir, "space.mp4"))
			Expect(os.IsNotExist(err)).To(BeTrue())
			_, err = os.Stat(filepath.Join(thumbnailDir, "space.png"))
			Expect(os.IsNotExist(err)).To(BeTrue())
		})

		It("succeeds even when the files are already gone", func() {
			created, err := s.Video().Create(context.TODO(), model.Video{Title: "Gone", Path: "gone.mp4"})
			Expect(err).To(BeNil())
			Expect(svc.Delete(context.TODO(), created.ID)).To(BeNil())
		})

		It("returns not found for unknown ids", func() {
			err := svc.Delete(context.TODO(), "missing")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrVideoNotFound{}))
		})
	})
})

package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/shortsmith/shortsmith/internal/config"
	"github.com/shortsmith/shortsmith/internal/service"
	"github.com/shortsmith/shortsmith/internal/store"
)

var _ = Describe("settings service", func() {
	var (
		s   store.Store
		svc *service.SettingsService
	)

	BeforeEach(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())
		s = store.NewStore(db)
		Expect(s.InitialMigration()).To(BeNil())

		svc = service.NewSettingsService(s)
	})

	AfterEach(func() {
		_ = s.Close()
	})

	It("returns defaults when nothing was saved", func() {
		shorts, err := svc.Shorts(context.TODO())
		Expect(err).To(BeNil())
		Expect(shorts.Style).To(Equal("entertaining"))
		Expect(shorts.MaxDuration).To(Equal(60))
		Expect(shorts.VerticalFormat).To(BeTrue())
		Expect(shorts.FastPaced).To(BeTrue())

		upload, err := svc.Upload(context.TODO())
		Expect(err).To(BeNil())
		Expect(upload.PrivacyStatus).To(Equal("private"))
		Expect(upload.Tags).To(ContainSubstring("#shorts"))
		Expect(upload.AutoUpload).To(BeFalse())
	})

	It("persists shorts settings across reads", func() {
		Expect(svc.SaveShorts(context.TODO(), service.ShortsSettings{
			Style:          "educational",
			MaxDuration:    45,
			VerticalFormat: true,
			FastPaced:      false,
		})).To(BeNil())

		shorts, err := svc.Shorts(context.TODO())
		Expect(err).To(BeNil())
		Expect(shorts.Style).To(Equal("educational"))
		Expect(shorts.MaxDuration).To(Equal(45))
		Expect(shorts.FastPaced).To(BeFalse())
	})

	It("rejects an out-of-range duration", func() {
		err := svc.SaveShorts(context.TODO(), service.ShortsSettings{Style: "fun", MaxDuration: 600})
		Expect(err).To(BeAssignableToTypeOf(&service.ErrValidation{}))
	})

	It("persists upload settings and validates the privacy status", func() {
		Expect(svc.SaveUpload(context.TODO(), service.UploadSettings{
			Tags:          "#shorts, #space",
			PrivacyStatus: "unlisted",
			AutoUpload:    true,
		})).To(BeNil())

		upload, err := svc.Upload(context.TODO())
		Expect(err).To(BeNil())
		Expect(upload.PrivacyStatus).To(Equal("unlisted"))
		Expect(upload.AutoUpload).To(BeTrue())

		err = svc.SaveUpload(context.TODO(), service.UploadSettings{PrivacyStatus: "secret"})
		Expect(err).To(BeAssignableToTypeOf(&service.ErrValidation{}))
	})
})

package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/shortsmith/shortsmith/internal/service"
)

// pendingUploader is configured but not yet authenticated.
type pendingUploader struct {
	fakeUploader
	exchangedCode string
}

func (p *pendingUploader) Authenticated() bool { return false }

func (p *pendingUploader) Exchange(_ context.Context, code string) error {
	p.exchangedCode = code
	return nil
}

var _ = Describe("channel service", func() {
	It("reports unconfigured when there is no uploader", func() {
		svc := service.NewChannelService(nil)

		state := svc.Auth(context.TODO())
		Expect(state.Configured).To(BeFalse())

		_, err := svc.Channel(context.TODO())
		Expect(err).To(BeAssignableToTypeOf(&service.ErrUploaderNotConfigured{}))
	})

	It("returns the channel summary when authenticated", func() {
		svc := service.NewChannelService(&fakeUploader{})

		state := svc.Auth(context.TODO())
		Expect(state.Configured).To(BeTrue())
		Expect(state.AuthRequired).To(BeFalse())

		info, err := svc.Channel(context.TODO())
		Expect(err).To(BeNil())
		Expect(info.Title).To(Equal("Test Channel"))
	})

	It("hands out the consent URL when authentication is pending", func() {
		svc := service.NewChannelService(&pendingUploader{})

		state := svc.Auth(context.TODO())
		Expect(state.Configured).To(BeTrue())
		Expect(state.AuthRequired).To(BeTrue())
		Expect(state.AuthURL).To(Equal("https://example.com/auth"))
	})

	It("completes the auth flow with the consent code", func() {
		uploader := &pendingUploader{}
		svc := service.NewChannelService(uploader)

		Expect(svc.CompleteAuth(context.TODO(), "code123")).To(BeNil())
		Expect(uploader.exchangedCode).To(Equal("code123"))
	})

	It("rejects an empty consent code", func() {
		err := service.NewChannelService(&pendingUploader{}).CompleteAuth(context.TODO(), "")
		Expect(err).To(BeAssignableToTypeOf(&service.ErrValidation{}))
	})
})

package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/shortsmith/shortsmith/internal/config"
	"github.com/shortsmith/shortsmith/internal/events"
	"github.com/shortsmith/shortsmith/internal/service"
	"github.com/shortsmith/shortsmith/internal/store"
	"github.com/shortsmith/shortsmith/internal/store/model"
)

var _ = Describe("status service", func() {
	var (
		s        store.Store
		notifier *events.Center
		svc      *service.StatusService
	)

	BeforeEach(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())
		s = store.NewStore(db)
		Expect(s.InitialMigration()).To(BeNil())

		notifier = events.NewCenter()
		svc = service.NewStatusService(s, notifier)
	})

	AfterEach(func() {
		_ = s.Close()
	})

	finishJob := func(status model.JobStatus) {
		job, err := s.Job().Create(context.TODO(), model.Job{Niche: "space"})
		Expect(err).To(BeNil())
		_, err = s.Job().Update(context.TODO(), job.ID, func(j model.Job) model.Job {
			j.Status = status
			return j
		})
		Expect(err).To(BeNil())
	}

	It("reports zero success rate before any job finished", func() {
		snapshot, err := svc.Snapshot(context.TODO())
		Expect(err).To(BeNil())
		Expect(snapshot.Stats.SuccessRate).To(Equal(0))
		Expect(snapshot.Stats.ActiveJobs).To(Equal(0))
	})

	It("computes the success rate from finished jobs only", func() {
		finishJob(model.JobStatusCompleted)
		finishJob(model.JobStatusCompleted)
		finishJob(model.JobStatusFailed)
		finishJob(model.JobStatusCancelled)

		snapshot, err := svc.Snapshot(context.TODO())
		Expect(err).To(BeNil())
		Expect(snapshot.Stats.SuccessRate).To(Equal(66))
	})

	It("counts in-progress and paused jobs as active", func() {
		finishJob(model.JobStatusInProgress)
		finishJob(model.JobStatusPaused)
		_, err := s.Job().Create(context.TODO(), model.Job{Niche: "queued"})
		Expect(err).To(BeNil())

		snapshot, err := svc.Snapshot(context.TODO())
		Expect(err).To(BeNil())
		Expect(snapshot.Stats.ActiveJobs).To(Equal(2))
		Expect(snapshot.Jobs).To(HaveLen(3))
	})

	It("includes video counts and recent videos", func() {
		for _, path := range []string{"one.mp4", "two.mp4"} {
			_, err := s.Video().Create(context.TODO(), model.Video{Title: path, Path: path})
			Expect(err).To(BeNil())
		}

		snapshot, err := svc.Snapshot(context.TODO())
		Expect(err).To(BeNil())
		Expect(snapshot.Stats.TotalVideos).To(Equal(2))
		Expect(snapshot.Stats.VideosToday).To(Equal(2))
		Expect(snapshot.Videos).To(HaveLen(2))
	})

	It("drains notifications into the snapshot", func() {
		notifier.Success("uploaded one")
		notifier.Error("narration failed")

		snapshot, err := svc.Snapshot(context.TODO())
		Expect(err).To(BeNil())
		Expect(snapshot.Notifications).To(HaveLen(2))

		// the next poll starts clean
		snapshot, err = svc.Snapshot(context.TODO())
		Expect(err).To(BeNil())
		Expect(snapshot.Notifications).To(BeEmpty())
	})
})

package store_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/shortsmith/shortsmith/internal/store"
	"github.com/shortsmith/shortsmith/internal/store/model"
)

var _ = Describe("job registry", func() {
	var registry *store.JobRegistry

	BeforeEach(func() {
		registry = store.NewJobRegistry()
	})

	Context("create", func() {
		It("assigns id, status and start time", func() {
			job, err := registry.Create(context.TODO(), model.Job{Niche: "tech facts", RequestedCount: 3})
			Expect(err).To(BeNil())
			Expect(job.ID).NotTo(BeEmpty())
			Expect(job.Status).To(Equal(model.JobStatusQueued))
			Expect(job.Started.IsZero()).To(BeFalse())
		})

		It("rejects a duplicate id", func() {
			job, err := registry.Create(context.TODO(), model.Job{Niche: "tech facts"})
			Expect(err).To(BeNil())

			_, err = registry.Create(context.TODO(), model.Job{ID: job.ID, Niche: "tech facts"})
			Expect(err).To(MatchError(store.ErrDuplicateKey))
		})
	})

	Context("get and list", func() {
		It("returns not found for unknown ids", func() {
			_, err := registry.Get(context.TODO(), "missing")
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})

		It("lists jobs newest first", func() {
			first, err := registry.Create(context.TODO(), model.Job{Niche: "space"})
			Expect(err).To(BeNil())
			second, err := registry.Create(context.TODO(), model.Job{Niche: "history"})
			Expect(err).To(BeNil())

			jobs := registry.List(context.TODO())
			Expect(jobs).To(HaveLen(2))
			Expect(jobs[0].ID).To(Equal(second.ID))
			Expect(jobs[1].ID).To(Equal(first.ID))
		})
	})

	Context("update", func() {
		It("replaces the whole record atomically", func() {
			job, err := registry.Create(context.TODO(), model.Job{Niche: "space", RequestedCount: 2})
			Expect(err).To(BeNil())

			updated, err := registry.Update(context.TODO(), job.ID, func(j model.Job) model.Job {
				j.Status = model.JobStatusInProgress
				j.Message = "Generating Short 1 of 2..."
				j.Progress = 10
				return j
			})
			Expect(err).To(BeNil())
			Expect(updated.Status).To(Equal(model.JobStatusInProgress))
			Expect(updated.Progress).To(Equal(10))

			fetched, err := registry.Get(context.TODO(), job.ID)
			Expect(err).To(BeNil())
			Expect(fetched).To(Equal(updated))
		})

		It("preserves identity fields against the mutate callback", func() {
			job, err := registry.Create(context.TODO(), model.Job{Niche: "space", RequestedCount: 2})
			Expect(err).To(BeNil())

			updated, err := registry.Update(context.TODO(), job.ID, func(j model.Job) model.Job {
				j.ID = "forged"
				j.RequestedCount = 99
				return j
			})
			Expect(err).To(BeNil())
			Expect(updated.ID).To(Equal(job.ID))
			Expect(updated.RequestedCount).To(Equal(2))
		})

		It("stamps the finish time on the first terminal transition", func() {
			job, err := registry.Create(context.TODO(), model.Job{Niche: "space"})
			Expect(err).To(BeNil())

			updated, err := registry.Update(context.TODO(), job.ID, func(j model.Job) model.Job {
				j.Status = model.JobStatusCompleted
				return j
			})
			Expect(err).To(BeNil())
			Expect(updated.FinishedAt.IsZero()).To(BeFalse())
		})

		It("returns not found for unknown ids", func() {
			_, err := registry.Update(context.TODO(), "missing", func(j model.Job) model.Job { return j })
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("outcomes", func() {
		It("counts completed and failed jobs once each", func() {
			finish := func(status model.JobStatus) {
				job, err := registry.Create(context.TODO(), model.Job{Niche: "space"})
				Expect(err).To(BeNil())
				_, err = registry.Update(context.TODO(), job.ID, func(j model.Job) model.Job {
					j.Status = status
					return j
				})
				Expect(err).To(BeNil())
				// a second terminal write must not double count
				_, err = registry.Update(context.TODO(), job.ID, func(j model.Job) model.Job {
					j.Message = "late write"
					return j
				})
				Expect(err).To(BeNil())
			}

			finish(model.JobStatusCompleted)
			finish(model.JobStatusCompleted)
			finish(model.JobStatusFailed)
			finish(model.JobStatusCancelled)

			completed, failed := registry.Outcomes(context.TODO())
			Expect(completed).To(Equal(2))
			Expect(failed).To(Equal(1))
		})

		It("keeps counting after pruning", func() {
			job, err := registry.Create(context.TODO(), model.Job{Niche: "space"})
			Expect(err).To(BeNil())
			_, err = registry.Update(context.TODO(), job.ID, func(j model.Job) model.Job {
				j.Status = model.JobStatusCompleted
				j.FinishedAt = time.Now().Add(-time.Hour)
				return j
			})
			Expect(err).To(BeNil())

			Expect(registry.Prune(context.TODO(), time.Minute)).To(Equal(1))
			Expect(registry.List(context.TODO())).To(BeEmpty())

			completed, _ := registry.Outcomes(context.TODO())
			Expect(completed).To(Equal(1))
		})
	})

	Context("prune", func() {
		It("keeps active jobs and recent terminal jobs", func() {
			active, err := registry.Create(context.TODO(), model.Job{Niche: "space"})
			Expect(err).To(BeNil())
			_, err = registry.Update(context.TODO(), active.ID, func(j model.Job) model.Job {
				j.Status = model.JobStatusInProgress
				return j
			})
			Expect(err).To(BeNil())

			recent, err := registry.Create(context.TODO(), model.Job{Niche: "history"})
			Expect(err).To(BeNil())
			_, err = registry.Update(context.TODO(), recent.ID, func(j model.Job) model.Job {
				j.Status = model.JobStatusCompleted
				return j
			})
			Expect(err).To(BeNil())

			Expect(registry.Prune(context.TODO(), time.Minute)).To(Equal(0))
			Expect(registry.List(context.TODO())).To(HaveLen(2))
		})
	})

	Context("count by status", func() {
		It("groups jobs by their current state", func() {
			for i := 0; i < 3; i++ {
				_, err := registry.Create(context.TODO(), model.Job{Niche: "space"})
				Expect(err).To(BeNil())
			}
			job, err := registry.Create(context.TODO(), model.Job{Niche: "history"})
			Expect(err).To(BeNil())
			_, err = registry.Update(context.TODO(), job.ID, func(j model.Job) model.Job {
				j.Status = model.JobStatusPaused
				return j
			})
			Expect(err).To(BeNil())

			counts := registry.CountByStatus(context.TODO())
			Expect(counts[model.JobStatusQueued]).To(Equal(3))
			Expect(counts[model.JobStatusPaused]).To(Equal(1))
		})
	})
})

package lib

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

var scheduler gocron.Scheduler

func GetScheduler() gocron.Scheduler {
	if scheduler == nil {
		s, err := gocron.NewScheduler()
		if err != nil {
			log.Panicf("Could not create scheduler: %s\n", err.Error())
		}
		scheduler = s
	}
	return scheduler
}

func NewScheduler(s gocron.Scheduler) {
	scheduler = s
}

// CreateOneTimeJob schedules task to run once at t.
func CreateOneTimeJob(t time.Time, task gocron.Task) (gocron.Job, error) {
	s := GetScheduler()
	job, err := s.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(t)),
		task,
	)
	if err != nil {
		log.Printf("Error creating one-time job: %s\n", err.Error())
		return nil, err
	}
	return job, nil
}

// CreateDurationJob schedules task to run every d.
func CreateDurationJob(d time.Duration, task gocron.Task) (gocron.Job, error) {
	s := GetScheduler()
	job, err := s.NewJob(
		gocron.DurationJob(d),
		task,
	)
	if err != nil {
		log.Printf("Error creating duration job: %s\n", err.Error())
		return nil, err
	}
	return job, nil
}

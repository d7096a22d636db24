package rewards

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
)

// Wallet is the storage surface the credit worker needs.
type Wallet interface {
	Credit(userID int64, amount int) error
}

type creditJob struct {
	userID int64
	amount int
	reason string
}

// Service applies coin credits asynchronously so quiz submission never
// blocks on the wallet. Jobs flow through a buffered channel into a
// single worker goroutine; a full queue drops the job with a warning
// rather than stalling the caller.
type Service struct {
	wallet Wallet
	queue  chan creditJob
	wg     sync.WaitGroup

	credited atomic.Int64
	failed   atomic.Int64
	dropped  atomic.Int64
}

const defaultQueueSize = 256

func NewService(wallet Wallet) *Service {
	return &Service{
		wallet: wallet,
		queue:  make(chan creditJob, defaultQueueSize),
	}
}

// Start launches the credit worker. It drains remaining jobs after ctx
// is cancelled so credits enqueued during shutdown still land.
func (s *Service) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case job := <-s.queue:
				s.apply(job)
			case <-ctx.Done():
				for {
					select {
					case job := <-s.queue:
						s.apply(job)
					default:
						log.Printf("[rewards] worker stopped: credited=%d failed=%d dropped=%d",
							s.credited.Load(), s.failed.Load(), s.dropped.Load())
						return
					}
				}
			}
		}
	}()
}

// Wait blocks until the worker has exited after Start's context is
// cancelled.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Enqueue schedules a coin credit. Never blocks: if the queue is full
// the credit is dropped and logged.
func (s *Service) Enqueue(userID int64, amount int, reason string) {
	if amount <= 0 {
		return
	}
	job := creditJob{userID: userID, amount: amount, reason: reason}
	select {
	case s.queue <- job:
	default:
		s.dropped.Add(1)
		log.Printf("[rewards] WARN: credit queue full, dropped %d coins for user %d (%s)", amount, userID, reason)
	}
}

func (s *Service) apply(job creditJob) {
	if err := s.wallet.Credit(job.userID, job.amount); err != nil {
		s.failed.Add(1)
		log.Printf("[rewards] WARN: failed to credit %d coins to user %d (%s): %v", job.amount, job.userID, job.reason, err)
		return
	}
	s.credited.Add(1)
}

// Counters reports how many credits were applied, failed, and dropped.
func (s *Service) Counters() (credited, failed, dropped int64) {
	return s.credited.Load(), s.failed.Load(), s.dropped.Load()
}

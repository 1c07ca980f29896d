package server

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/ballrush/internal/store"
)

const (
	persistQueueSize = 256
	persistTimeout   = 2 * time.Second
	leaderboardSize  = 5
)

type jobKind int

const (
	jobCombo jobKind = iota
	jobRound
	jobTheme
)

type persistJob struct {
	kind   jobKind
	player string
	score  int
	combo  int
	theme  store.Theme
}

// persister moves record writes off the tick loop. Rounds enqueue without
// blocking; a single worker applies writes in order and refreshes the
// cached leaderboard after each round.
type persister struct {
	records store.Records
	logger  *log.Logger
	top     *atomic.Pointer[[]store.Record]
	jobs    chan persistJob
}

func newPersister(records store.Records, logger *log.Logger, top *atomic.Pointer[[]store.Record]) *persister {
	return &persister{
		records: records,
		logger:  logger,
		top:     top,
		jobs:    make(chan persistJob, persistQueueSize),
	}
}

func (p *persister) enqueue(job persistJob) {
	select {
	case p.jobs <- job:
	default:
		p.logger.Warn("persist queue full, dropping write", "player", job.player, "kind", job.kind)
	}
}

// run applies jobs until ctx is done, then drains what is left.
func (p *persister) run(ctx context.Context) {
	for {
		select {
		case job := <-p.jobs:
			p.apply(ctx, job)
		case <-ctx.Done():
			p.drain(context.Background())
			return
		}
	}
}

// drain applies every queued job and returns.
func (p *persister) drain(ctx context.Context) {
	for {
		select {
		case job := <-p.jobs:
			p.apply(ctx, job)
		default:
			return
		}
	}
}

func (p *persister) apply(ctx context.Context, job persistJob) {
	ctx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()

	var err error
	switch job.kind {
	case jobCombo:
		err = p.records.SubmitCombo(ctx, job.player, job.combo)
	case jobRound:
		err = p.records.SubmitRound(ctx, job.player, job.score, job.combo)
	case jobTheme:
		err = p.records.SetTheme(ctx, job.player, job.theme)
	}
	if err != nil {
		p.logger.Error("persist record failed", "player", job.player, "kind", job.kind, "err", err)
		return
	}
	if job.kind == jobRound {
		p.refreshTop(ctx)
	}
}

func (p *persister) refreshTop(ctx context.Context) {
	top, err := p.records.Top(ctx, leaderboardSize)
	if err != nil {
		p.logger.Warn("leaderboard refresh failed", "err", err)
		return
	}
	if top == nil {
		top = []store.Record{}
	}
	p.top.Store(&top)
}

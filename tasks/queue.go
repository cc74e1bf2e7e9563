package tasks

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// タスク種別
const TypeMirrorListing = "listing.mirror"

// Task はキューに積まれるシリアライズ可能なタスク記述。
// 実体ではなくIDだけを持ち、実行時に最新の状態を引き直す
type Task struct {
	Type      string
	ListingID uint
}

type Executor func(ctx context.Context, task Task) error

type Enqueuer interface {
	Enqueue(task Task, delay time.Duration) error
}

var (
	ErrQueueStopped = errors.New("task queue is stopped")
	ErrQueueFull    = errors.New("task queue is full")
)

// Pool はリクエスト処理スレッドから切り離されたワーカープール。
// Enqueue はチャネル送信以上にブロックしない
type Pool struct {
	mu          sync.Mutex
	queue       chan Task
	executors   map[string]Executor
	workers     int
	taskTimeout time.Duration
	wg          sync.WaitGroup
	stopped     bool
}

func NewPool(workers int, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		queue:       make(chan Task, queueSize),
		executors:   map[string]Executor{},
		workers:     workers,
		taskTimeout: 30 * time.Second,
	}
}

func (p *Pool) Register(taskType string, executor Executor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.executors[taskType] = executor
}

func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Enqueue はタスクを（delayの経過後に）キューへ積む。
// 一度スケジュールしたタスクのキャンセルはできない
func (p *Pool) Enqueue(task Task, delay time.Duration) error {
	if delay <= 0 {
		return p.push(task)
	}
	time.AfterFunc(delay, func() {
		if err := p.push(task); err != nil {
			log.Printf("Dropping delayed task %s (listing %d): %v", task.Type, task.ListingID, err)
		}
	})
	return nil
}

func (p *Pool) push(task Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return ErrQueueStopped
	}
	select {
	case p.queue <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop は新規受付を止め、積まれた分を処理し切ってから戻る
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.queue {
		p.mu.Lock()
		executor, ok := p.executors[task.Type]
		p.mu.Unlock()
		if !ok {
			log.Printf("No executor registered for task %s", task.Type)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), p.taskTimeout)
		if err := executor(ctx, task); err != nil {
			// ベストエフォート。失敗してもリトライせずログに残すのみ
			log.Printf("Task %s (listing %d) failed: %v", task.Type, task.ListingID, err)
		}
		cancel()
	}
}

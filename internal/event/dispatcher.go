package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/donorhub/dhs/internal/logger"
	"github.com/panjf2000/ants/v2"
)

// hookTimeout 单个后置钩子的执行上限
const hookTimeout = 30 * time.Second

// Processor 事件处理器
type Processor interface {
	Name() string
	Process(ctx context.Context, evt Event) error
}

// Publisher 由业务层持有，用于发布提交后的事件
type Publisher interface {
	Publish(evt Event)
}

// Dispatcher 在协程池中执行提交后钩子。钩子最多执行一次，失败只记录日志。
type Dispatcher struct {
	pool       *ants.Pool
	mu         sync.RWMutex
	processors map[Type][]Processor
	wg         sync.WaitGroup
}

// NewDispatcher 创建事件分发器
func NewDispatcher(workers int) (*Dispatcher, error) {
	if workers <= 0 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create hook pool: %w", err)
	}
	return &Dispatcher{
		pool:       pool,
		processors: make(map[Type][]Processor),
	}, nil
}

// Register 为事件类型注册处理器
func (d *Dispatcher) Register(t Type, p Processor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.processors[t] = append(d.processors[t], p)
}

// Publish 异步执行该事件的所有处理器，不等待结果
func (d *Dispatcher) Publish(evt Event) {
	d.mu.RLock()
	processors := d.processors[evt.Type]
	d.mu.RUnlock()

	for _, p := range processors {
		p := p
		d.wg.Add(1)
		err := d.pool.Submit(func() {
			defer d.wg.Done()
			d.run(p, evt)
		})
		if err != nil {
			d.wg.Done()
			logger.Error("Dropped %s hook for donation %d: %v", p.Name(), evt.Donation.Id, err)
		}
	}
}

func (d *Dispatcher) run(p Processor, evt Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Hook %s panicked on %s for donation %d: %v", p.Name(), evt.Type, evt.Donation.Id, r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), hookTimeout)
	defer cancel()

	if err := p.Process(ctx, evt); err != nil {
		logger.Error("Hook %s failed on %s for donation %d: %v", p.Name(), evt.Type, evt.Donation.Id, err)
		return
	}
	logger.Debug("Hook %s processed %s for donation %d", p.Name(), evt.Type, evt.Donation.Id)
}

// Wait 等待已提交的钩子全部完成
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close 等待在途钩子后释放协程池
func (d *Dispatcher) Close() {
	d.Wait()
	d.pool.Release()
}

// RegisterDonationHooks 注册捐赠的全部后置钩子
func (d *Dispatcher) RegisterDonationHooks(tasks TaskCreator, campaigns RaisedAdjuster) {
	d.Register(DonationCreated, NewThankYouTaskProcessor(tasks))

	raised := NewCampaignRaisedProcessor(campaigns)
	d.Register(DonationCreated, raised)
	d.Register(DonationUpdated, raised)
	d.Register(DonationDeleted, raised)
}

package challenge

import (
	"context"
	"sync"
)

// DefaultHistoryPageSize размер страницы истории по умолчанию
const DefaultHistoryPageSize = 10

// HistoryFetcher загружает страницу истории челленджей (нумерация с 1)
type HistoryFetcher func(ctx context.Context, page, pageSize int) ([]Challenge, error)

// HistoryPager накапливает страницы истории завершенных челленджей.
// Сервер не сообщает общее количество, поэтому конец истории виден только по пустой странице
type HistoryPager struct {
	fetch    HistoryFetcher
	pageSize int

	mu      sync.Mutex
	records []Challenge
	page    int
	hasMore bool
	loading bool
}

func NewHistoryPager(fetch HistoryFetcher, pageSize int) *HistoryPager {
	if pageSize <= 0 {
		pageSize = DefaultHistoryPageSize
	}
	return &HistoryPager{
		fetch:    fetch,
		pageSize: pageSize,
		hasMore:  true,
	}
}

// Load загружает страницу: первая заменяет накопленный список, остальные дописываются в конец.
// Пока идет загрузка, повторный вызов возвращает ErrHistoryBusy
func (p *HistoryPager) Load(ctx context.Context, page int) error {
	if page < 1 {
		return ErrInvalidPage
	}

	p.mu.Lock()
	if p.loading {
		p.mu.Unlock()
		return ErrHistoryBusy
	}
	p.loading = true
	p.mu.Unlock()

	items, err := p.fetch(ctx, page, p.pageSize)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false

	if err != nil {
		return err
	}

	if page == 1 {
		p.records = append([]Challenge(nil), items...)
	} else {
		p.records = append(p.records, items...)
	}
	p.page = page
	p.hasMore = len(items) > 0

	return nil
}

// Reload загружает историю заново с первой страницы
func (p *HistoryPager) Reload(ctx context.Context) error {
	return p.Load(ctx, 1)
}

// LoadMore загружает следующую страницу. Возвращает false, если история уже закончилась
func (p *HistoryPager) LoadMore(ctx context.Context) (bool, error) {
	p.mu.Lock()
	if !p.hasMore {
		p.mu.Unlock()
		return false, nil
	}
	next := p.page + 1
	p.mu.Unlock()

	if err := p.Load(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// Records копия накопленного списка
func (p *HistoryPager) Records() []Challenge {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Challenge, len(p.records))
	copy(out, p.records)
	return out
}

func (p *HistoryPager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

func (p *HistoryPager) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

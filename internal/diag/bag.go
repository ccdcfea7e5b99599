package diag

import (
	"fmt"
	"sort"
)

type Bag struct {
	items []Violation
	max   int
}

// NewBag returns a bag that keeps at most max items; max <= 0 means unlimited.
func NewBag(max int) *Bag {
	capacity := max
	if capacity <= 0 || capacity > 64 {
		capacity = 64
	}
	return &Bag{
		items: make([]Violation, 0, capacity),
		max:   max,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(v Violation) bool {
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, v)
	return true
}

// AddAll adds items until the limit is reached and returns how many were kept.
func (b *Bag) AddAll(vs []Violation) int {
	n := 0
	for i := range vs {
		if !b.Add(vs[i]) {
			break
		}
		n++
	}
	return n
}

func (b *Bag) Cap() int {
	return b.max
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Violation {
	return b.items
}

// Merge объединяет диагностики из другого Bag.
// Увеличивает max, если нужно вместить все элементы.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	newTotal := len(b.items) + len(other.items)
	if b.max > 0 && newTotal > b.max {
		b.max = newTotal
	}
	b.items = append(b.items, other.items...)
}

// Sort сортирует диагностики по: file, start, end, rule ID
// для стабильного и детерминированного порядка вывода.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		return Less(&b.items[i], &b.items[j])
	})
}

// простая дедупликация (по RuleID+Primary)
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	newitems := make([]Violation, 0, len(b.items))
	for _, v := range b.items {
		key := fmt.Sprintf("%s:%s", v.RuleID, v.Primary.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		newitems = append(newitems, v)
	}
	b.items = newitems
}

// Filter keeps the items for which keep returns true.
func (b *Bag) Filter(keep func(*Violation) bool) {
	out := b.items[:0]
	for i := range b.items {
		if keep(&b.items[i]) {
			out = append(out, b.items[i])
		}
	}
	b.items = out
}

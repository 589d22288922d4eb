package diag

// Bag collects diagnostics of one unit of work (a file, a function batch or
// the whole run) and counts errors. The error count includes errors that
// were not kept because of the limit or the level.
type Bag struct {
	items  []Diagnostic
	max    int // 0: без ограничения
	level  Severity
	errors int
}

func NewBag(max int) *Bag {
	return &Bag{
		items: make([]Diagnostic, 0, min(max, 64)),
		max:   max,
		level: SevDebug5,
	}
}

// SetLevel drops diagnostics less severe than level from now on.
func (b *Bag) SetLevel(level Severity) { b.level = level }

// Level is the least severe level the bag keeps.
func (b *Bag) Level() Severity { return b.level }

// Add добавляет диагностику, учитывая лимит и уровень.
// Возвращает false, если диагностика не добавлена.
func (b *Bag) Add(d Diagnostic) bool {
	if d.Counted() {
		b.errors++
	}
	if d.Severity < b.level {
		return false
	}
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// ErrorCount is the number of ERROR and FATAL diagnostics ever added.
func (b *Bag) ErrorCount() int {
	return b.errors
}

// HasErrors сообщает, было ли хоть одно ERROR или FATAL, включая отброшенные.
func (b *Bag) HasErrors() bool {
	return b.errors > 0
}

// HasFatal reports whether a kept diagnostic is FATAL.
func (b *Bag) HasFatal() bool {
	for i := range b.items {
		if b.items[i].Severity == SevFatal {
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
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends the diagnostics of other in their order and adds its error
// count. The receiver's level and limit apply to the merged items.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.errors += other.errors
	for _, d := range other.items {
		if d.Severity < b.level {
			continue
		}
		if b.max > 0 && len(b.items) >= b.max {
			break
		}
		b.items = append(b.items, d)
	}
}

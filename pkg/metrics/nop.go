package metrics

// Nop реализация доменных метрик, когда сбор метрик отключен
type Nop struct{}

func (Nop) RecordBooking(string)                 {}
func (Nop) RecordRosterOperation(string, string) {}
func (Nop) RecordCache(string)                   {}
func (Nop) RecordCompleted(int64)                {}

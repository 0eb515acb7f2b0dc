package storage

type CachedExpense struct {
	GroupID   int64
	Position  int64
	ExpenseID int64
	Payload   string
	FetchedAt string
}

type Run struct {
	ID          int64
	Year        int64
	GroupID     int64
	Offline     int64
	Fetched     int64
	Excluded    int64
	Unparseable int64
	OutsideYear int64
	Kept        int64
	Leader      string
	LeaderTotal string
	Refs        string
	StartedAt   string
	FinishedAt  string
}

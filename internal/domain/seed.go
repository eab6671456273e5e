package domain

// DefaultRoster is the workshop team used when no roster is configured.
var DefaultRoster = []string{"Marius", "Andrei", "Elena", "Bogdan"}

// ExampleWorkItems is the seed board loaded on first run and whenever the
// persisted board cannot be decoded.
func ExampleWorkItems() []NewWorkItem {
	return []NewWorkItem{
		{
			Vehicle: "BMW X5", Client: "Ion Popescu", WorkType: "Oil Change",
			Priority: PriorityMedium, EstimatedTime: "2h", AssignedTo: "Marius",
			Status: StatusPending,
		},
		{
			Vehicle: "Audi A4", Client: "Maria Ionescu", WorkType: "Brake Pads Replacement",
			Priority: PriorityHigh, EstimatedTime: "3h", AssignedTo: "Andrei",
			Status: StatusInProgress,
		},
		{
			Vehicle: "Volkswagen Golf", Client: "Alexandru Dumitrescu", WorkType: "Periodic Inspection",
			Priority: PriorityLow, EstimatedTime: "1h30m", AssignedTo: "Elena",
			Status: StatusPending,
		},
		{
			Vehicle: "Mercedes C-Class", Client: "Elena Georgescu", WorkType: "Timing Belt",
			Priority: PriorityHigh, EstimatedTime: "4h", AssignedTo: "Bogdan",
			Status: StatusCompleted,
		},
	}
}

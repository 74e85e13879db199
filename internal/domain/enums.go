package domain

type WorkItemStatus string

const (
	WorkItemTodo     WorkItemStatus = "todo"
	WorkItemDone     WorkItemStatus = "done"
	WorkItemArchived WorkItemStatus = "archived"
)

// EventSource identifies where a fixed event came from.
type EventSource string

const (
	SourceCalendar EventSource = "calendar"
	SourceManual   EventSource = "manual"
	SourceImport   EventSource = "import"
	SourcePlanner  EventSource = "planner"
)

// FeedbackAction is what the user did with a generated block.
type FeedbackAction string

const (
	ActionKept        FeedbackAction = "kept"
	ActionRescheduled FeedbackAction = "rescheduled"
	ActionDeleted     FeedbackAction = "deleted"
	ActionShortened   FeedbackAction = "shortened"
	ActionExtended    FeedbackAction = "extended"
)

// ValidFeedbackActions is the canonical set of accepted action strings.
var ValidFeedbackActions = map[string]bool{
	"kept": true, "rescheduled": true, "deleted": true,
	"shortened": true, "extended": true,
}

// IsPositive reports whether the action signals the block suited the user.
func (a FeedbackAction) IsPositive() bool {
	return a == ActionKept || a == ActionExtended
}

// IsNegative reports whether the action signals the block did not suit the user.
func (a FeedbackAction) IsNegative() bool {
	return a == ActionDeleted || a == ActionShortened
}

type StepState string

const (
	StepNotStarted StepState = "not_started"
	StepBlocked    StepState = "blocked"
	StepUnblocked  StepState = "unblocked"
	StepCompleted  StepState = "completed"
)

// ScoreComponent names one weighted term of the priority score.
type ScoreComponent string

const (
	ComponentUrgency    ScoreComponent = "urgency"
	ComponentImportance ScoreComponent = "importance"
	ComponentDifficulty ScoreComponent = "difficulty"
	ComponentSize       ScoreComponent = "size"
)

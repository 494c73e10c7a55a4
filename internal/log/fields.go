package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status_code"
	FieldDuration  = "duration_ms"
	FieldMealID    = "meal_id"
	FieldCalories  = "calories"
	FieldDate      = "date"
	FieldStart     = "start"
	FieldEnd       = "end"
	FieldGoal      = "goal"
	FieldDBPath    = "db_path"
)

// Components
const (
	ComponentApp        = "app"
	ComponentStore      = "store"
	ComponentLedger     = "ledger"
	ComponentAggregator = "aggregator"
	ComponentDaemon     = "daemon"
	ComponentTUI        = "tui"
)

// Operations
const (
	OpAddMeal    = "add_meal"
	OpDeleteMeal = "delete_meal"
	OpQueryMeals = "query_meals"
	OpSetGoal    = "set_goal"
	OpLoadGoal   = "load_goal"
	OpMigrate    = "migrate"
	OpStartup    = "startup"
	OpShutdown   = "shutdown"
)

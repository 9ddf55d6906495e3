package handler

type ContextKey string

var (
	RoleCtxKey     ContextKey = "role"
	SubCtxKey      ContextKey = "sub"
	OrgCtxKey      ContextKey = "org"
	MyInfoCtx      ContextKey = "myInfo"
	StaffInfoCtx   ContextKey = "staffInfo"
	LocationCtx    ContextKey = "location"
	CategoryCtx    ContextKey = "shiftCategory"
	ShiftCtx       ContextKey = "shift"
	SwapRequestCtx ContextKey = "swapRequest"
	TimeEntryCtx   ContextKey = "timeEntry"
)

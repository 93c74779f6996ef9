package schedule

// Models lists the tables owned by this package for migration.
func Models() []any {
	return []any{&WeeklyTemplateSlot{}, &BlockedDate{}}
}

package models

// All lists every booking table, in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Tenant{},
		&Contact{},
		&Conversation{},
		&Message{},
		&Service{},
		&Appointment{},
		&BirthdaySendLog{},
	}
}

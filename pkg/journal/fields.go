package journal

// Journal field names read or matched by the exporter.
const (
	FieldMessage           = "MESSAGE"
	FieldPriority          = "PRIORITY"
	FieldSystemdUnit       = "_SYSTEMD_UNIT"
	FieldSyslogIdentifier  = "SYSLOG_IDENTIFIER"
	FieldRealtimeTimestamp = "__REALTIME_TIMESTAMP"
)

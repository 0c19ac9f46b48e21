package mail

type MeetingScheduledData struct {
	Name     string
	Agenda   string
	When     string
	Location string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	Dialer   Dialer
}

package domain

var (
	SCENARIO_LIST_SUCCESS            = "Fetched scenario catalog"
	SCENARIO_LIST_FAILED             = "Failed to fetch scenario catalog"
	PRACTICE_SESSION_START_SUCCESS   = "Practice session started"
	PRACTICE_SESSION_START_FAILED    = "Failed to start practice session"
	PRACTICE_SESSION_GET_SUCCESS     = "Fetched practice session"
	PRACTICE_SESSION_GET_FAILED      = "Failed to fetch practice session"
	PRACTICE_SEND_MESSAGE_SUCCESS    = "Message sent"
	PRACTICE_SEND_MESSAGE_FAILED     = "Failed to send message"
	PRACTICE_SESSION_RESTART_SUCCESS = "Practice session restarted"
	PRACTICE_SESSION_RESTART_FAILED  = "Failed to restart practice session"
	PRACTICE_SESSION_EXIT_SUCCESS    = "Practice session closed"
	PRACTICE_SESSION_EXIT_FAILED     = "Failed to close practice session"
	PRACTICE_SPEECH_FAILED           = "Failed to fetch speech clip"
	STATS_GET_SUCCESS                = "Fetched learner stats"
	STATS_GET_FAILED                 = "Failed to fetch learner stats"
)

package event

const CodeVerifiedDestination string = "code_verified"
const CodeVerifiedConsumerSpeech string = "code_verified_speech"

type CodeVerifiedMessage struct {
	AccountID int64  `json:"account_id"`
	Username  string `json:"username"`
	Code      string `json:"code"`
}

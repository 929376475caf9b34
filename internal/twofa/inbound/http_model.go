package inbound

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Secret          string `json:"secret"`
	ProvisioningURI string `json:"provisioning_uri"`
	QRCodePNG       string `json:"qr_code_png"`
}

func (RegisterResponse) Message() string {
	return "Registration successful. Scan the QR code with your authenticator app; the secret is not shown again."
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	SessionToken string `json:"session_token"`
	Stage        string `json:"stage"`
}

func (LoginResponse) Message() string {
	return "Password accepted. Verify a one-time code to finish signing in."
}

type VerifyRequest struct {
	Code string `json:"code"`
}

type VerifyResponse struct {
	Stage string `json:"stage"`
}

func (VerifyResponse) Message() string {
	return "Two-factor verification complete."
}

type LogoutResponse struct{}

func (LogoutResponse) Message() string {
	return "Logged out."
}

type AddTokenRequest struct {
	ServiceName string `json:"service_name"`
	Secret      string `json:"secret"`
}

type AddTokenResponse struct {
	ID          int64  `json:"id,string"`
	ServiceName string `json:"service_name"`
	Secret      string `json:"secret"`
}

type TokenCode struct {
	ID          int64  `json:"id,string"`
	ServiceName string `json:"service_name"`
	Code        string `json:"code"`
}

type ListTokensResponse struct {
	Tokens []TokenCode `json:"tokens"`
}

type ImportTokensResponse struct {
	Imported int `json:"imported"`
}

func (ImportTokensResponse) Message() string {
	return "Backup restored."
}

package bot

import "sync"

// Status mirrors the messaging channel's connection state as reported by
// the external transport over the status webhook.
type Status struct {
	Connected   bool    `json:"connected"`
	QRCode      *string `json:"qr_code"`
	PhoneNumber *string `json:"phone_number"`
	StatusText  string  `json:"status_text"`
}

// StatusPatch is a partial status update; nil fields are left untouched.
type StatusPatch struct {
	Connected   *bool   `json:"connected"`
	QRCode      *string `json:"qr_code"`
	PhoneNumber *string `json:"phone_number"`
	StatusText  *string `json:"status_text"`
}

// StatusRegistry guards the channel status independently of the
// conversation store.
type StatusRegistry struct {
	mu     sync.RWMutex
	status Status
}

func NewStatusRegistry() *StatusRegistry {
	return &StatusRegistry{status: Status{StatusText: "Desconectado"}}
}

func (r *StatusRegistry) Get() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// Apply merges the patch and returns the resulting status.
func (r *StatusRegistry) Apply(p StatusPatch) Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.Connected != nil {
		r.status.Connected = *p.Connected
	}
	if p.QRCode != nil {
		r.status.QRCode = p.QRCode
	}
	if p.PhoneNumber != nil {
		r.status.PhoneNumber = p.PhoneNumber
	}
	if p.StatusText != nil {
		r.status.StatusText = *p.StatusText
	}
	return r.status
}

package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/XxLosHermanosxX/Sushibot/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		SiteURL:      "https://example.shop",
		BusinessName: "Teste Sushi",
	}
}

func TestDetectsDistrust(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"isso não é golpe?", true},
		{"isso é GOLPE mesmo", true},
		{"esse site é confiável?", true},
		{"tenho que pagar pix antes?", true},
		{"parece fraude", true},
		{"quero pedir um combo", false},
		{"", false},
		{"qual o endereço da loja?", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DetectsDistrust(tc.text), "text=%q", tc.text)
	}
}

func TestTemplatesCarryBusinessFields(t *testing.T) {
	cfg := testConfig()

	for name, text := range map[string]string{
		"system":   System(cfg),
		"welcome":  Welcome(cfg),
		"distrust": DistrustReply(cfg),
		"fallback": Fallback(cfg),
	} {
		assert.Contains(t, text, cfg.SiteURL, "%s template must point at the site", name)
	}

	assert.Contains(t, System(cfg), cfg.BusinessName)
	assert.Contains(t, Welcome(cfg), cfg.BusinessName)
}

func TestTemplatesAreDeterministic(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, Welcome(cfg), Welcome(cfg))
	assert.Equal(t, Fallback(cfg), Fallback(cfg))
}

package ai

// ModelInfo describes one selectable model for the dashboard.
type ModelInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Free        bool   `json:"free"`
}

// Catalog lists the models selectable per provider.
var Catalog = map[string]map[string]ModelInfo{
	"openrouter": {
		"deepseek/deepseek-r1:free": {
			Name:        "DeepSeek R1 (Gratuito)",
			Description: "Modelo de raciocínio avançado, ótimo para respostas complexas",
			Free:        true,
		},
		"deepseek/deepseek-chat:free": {
			Name:        "DeepSeek Chat (Gratuito)",
			Description: "Modelo de chat rápido e eficiente",
			Free:        true,
		},
		"meta-llama/llama-3.3-70b-instruct:free": {
			Name:        "Llama 3.3 70B (Gratuito)",
			Description: "Modelo grande da Meta, excelente qualidade",
			Free:        true,
		},
		"meta-llama/llama-3.1-8b-instruct:free": {
			Name:        "Llama 3.1 8B (Gratuito)",
			Description: "Modelo menor mas muito rápido",
			Free:        true,
		},
		"google/gemma-2-9b-it:free": {
			Name:        "Google Gemma 2 9B (Gratuito)",
			Description: "Modelo do Google, bom para português",
			Free:        true,
		},
		"qwen/qwen-2.5-72b-instruct:free": {
			Name:        "Qwen 2.5 72B (Gratuito)",
			Description: "Modelo chinês muito capaz, multilíngue",
			Free:        true,
		},
		"qwen/qwen-2.5-coder-32b-instruct:free": {
			Name:        "Qwen 2.5 Coder 32B (Gratuito)",
			Description: "Especializado em código e instruções",
			Free:        true,
		},
		"mistralai/mistral-small-24b-instruct-2501:free": {
			Name:        "Mistral Small 24B (Gratuito)",
			Description: "Modelo europeu rápido e eficiente",
			Free:        true,
		},
		"microsoft/phi-3-mini-128k-instruct:free": {
			Name:        "Microsoft Phi-3 Mini (Gratuito)",
			Description: "Modelo compacto da Microsoft",
			Free:        true,
		},
		"openchat/openchat-7b:free": {
			Name:        "OpenChat 7B (Gratuito)",
			Description: "Modelo de chat open source",
			Free:        true,
		},
	},
	"gemini": {
		"gemini-2.5-flash": {
			Name:        "Gemini 2.5 Flash",
			Description: "Mais recente e rápido",
		},
		"gemini-2.5-pro": {
			Name:        "Gemini 2.5 Pro",
			Description: "Mais capaz, respostas melhores",
		},
		"gemini-2.0-flash": {
			Name:        "Gemini 2.0 Flash",
			Description: "Versão estável e rápida",
		},
		"gemini-1.5-flash": {
			Name:        "Gemini 1.5 Flash",
			Description: "Versão anterior, muito estável",
		},
		"gemini-1.5-pro": {
			Name:        "Gemini 1.5 Pro",
			Description: "Versão anterior, alta qualidade",
		},
	},
}

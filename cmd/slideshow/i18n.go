// Package main provides localization for the slideshow CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Portuguese translations for CLI messages.
	l10n.Register("pt", l10n.LexiconMap{
		// Flag categories
		"Output":  "Saída",
		"Video":   "Vídeo",
		"Engine":  "Mecanismo",
		"Logging": "Registro",

		// Commands
		"Create slideshow videos from still images": "Cria vídeos de apresentação a partir de imagens",
		"Compose images into an MP4 slideshow":      "Gera uma apresentação MP4 a partir das imagens",
		"Show the video stream of an MP4 file":      "Mostra o fluxo de vídeo de um arquivo MP4",

		// Flags
		"Output MP4 file path":                                           "Caminho do arquivo MP4 de saída",
		"Write a Markdown summary to this path":                          "Grava um resumo em Markdown neste caminho",
		"Serve the video for playback at this address until interrupted": "Serve o vídeo para reprodução neste endereço até ser interrompido",
		"Title overlay text":                                             "Texto do título",
		"Subtitle overlay text":                                          "Texto do subtítulo",
		"How long each image stays on screen":                            "Quanto tempo cada imagem fica na tela",
		"TrueType font for the overlays":                                 "Fonte TrueType dos textos",
		"Pass images to the engine unchanged":                            "Envia as imagens ao mecanismo sem alteração",
		"YAML configuration file":                                        "Arquivo de configuração YAML",
		"Path to the ffmpeg executable":                                  "Caminho do executável ffmpeg",
		"Log level (debug, info, warn, error)":                           "Nível de registro (debug, info, warn, error)",
		"Suppress all log output":                                        "Suprime todas as mensagens",

		// Usage errors
		"at least one image is required": "é necessária pelo menos uma imagem",
		"probe takes exactly one file":   "probe recebe exatamente um arquivo",

		// Summary labels
		"Slideshow Summary": "Resumo da apresentação",
		"Input":             "Entrada",
		"Item":              "Item",
		"Value":             "Valor",
		"Images":            "Imagens",
		"Total Size":        "Tamanho total",
		"Settings":          "Configurações",
		"Title":             "Título",
		"Subtitle":          "Subtítulo",
		"Seconds per Image": "Segundos por imagem",
		"Codec":             "Codec",
		"Pixel Format":      "Formato de pixel",
		"Canvas":            "Tela",
		"File":              "Arquivo",
		"File Size":         "Tamanho do arquivo",
		"Resolution":        "Resolução",
		"Duration":          "Duração",
		"Frames":            "Quadros",
		"Compose Time":      "Tempo de geração",
		"Generated at":      "Gerado em",
		"N/A":               "N/D",
	})
}

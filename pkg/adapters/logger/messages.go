package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("pt", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Starting pipeline":                "Iniciando o processamento",
		"Pipeline completed successfully":  "Processamento concluído com sucesso",
		"Loading %d images":                "Carregando %d imagens",
		"Loaded %s (%d bytes)":             "%s carregado (%d bytes)",
		"Video composed: %d bytes":         "Vídeo gerado: %d bytes",
		"Wrote %s":                         "%s gravado",
		"Output video: %s %s %dx%d, %.2fs": "Vídeo de saída: %s %s %dx%d, %.2fs",
		"Output saved to %s":               "Saída salva em %s",
		"Interrupted, shutting down...":    "Interrompido, encerrando...",
		"Progress: %d%%":                   "Progresso: %d%%",

		// Orchestration errors
		"Failed to read %s: %s":              "Falha ao ler %s: %s",
		"Failed to compose video: %s":        "Falha ao gerar o vídeo: %s",
		"Failed to write output: %s":         "Falha ao gravar a saída: %s",
		"Could not inspect output video: %s": "Não foi possível inspecionar o vídeo de saída: %s",

		// Composer
		"Composing %d images":                          "Gerando vídeo com %d imagens",
		"Video composed: %d bytes in %s":               "Vídeo gerado: %d bytes em %s",
		"Compose rejected: another compose is running": "Geração recusada: outra geração está em andamento",
		"Cancelling compose in progress":               "Cancelando a geração em andamento",
		"Compose abandoned by reset":                   "Geração descartada pela reinicialização",
		"Compose cancelled: %s":                        "Geração cancelada: %s",
		"Compose failed: %s":                           "Falha na geração: %s",
		"Composer reset":                               "Gerador reinicializado",
		"Failed to load engine: %s":                    "Falha ao carregar o mecanismo: %s",
		"Failed to stage %s: %s":                       "Falha ao preparar %s: %s",
		"Failed to transcode: %s":                      "Falha na conversão: %s",
		"Failed to delete %s: %s":                      "Falha ao apagar %s: %s",
		"Invariant violated: engine reported success but %s could not be read: %s": "Invariante violada: o mecanismo relatou sucesso mas %s não pôde ser lido: %s",
		"Staged %s (%d bytes)":    "%s preparado (%d bytes)",
		"Engine arguments: %v":    "Argumentos do mecanismo: %v",
		"Removed %d engine files": "%d arquivos do mecanismo removidos",

		// Session
		"Loading engine (attempt %d)": "Carregando o mecanismo (tentativa %d)",
		"Engine loaded":               "Mecanismo carregado",
		"Engine terminated":           "Mecanismo encerrado",

		// ffmpeg engine
		"Using %s (%s)":                "Usando %s (%s)",
		"Working directory: %s":        "Diretório de trabalho: %s",
		"Running ffmpeg %s":            "Executando ffmpeg %s",
		"ffmpeg exited with code %d":   "ffmpeg terminou com código %d",
		"Removed working directory %s": "Diretório de trabalho %s removido",

		// Normalize stage
		"Normalizing %d images to %dx%d with %d workers": "Normalizando %d imagens para %dx%d com %d processos",
		"Normalized %d images to %dx%d":                  "%d imagens normalizadas para %dx%d",

		// Preview server
		"Preview available at %s":           "Pré-visualização disponível em %s",
		"Published %s as %s":                "%s publicado como %s",
		"Revoked %s":                        "%s revogado",
		"Failed to render preview page: %s": "Falha ao exibir a página de pré-visualização: %s",
	})
}

package blueprint

func defaultReflectionPrompts() []string {
	return []string{
		"Qual é a principal barreira real que está impedindo a conclusão do projeto hoje?",
		"Qual comportamento seu mais atrasa a execução quando surge pressão?",
		"O que você precisa simplificar nesta semana para recuperar tração?",
		"Qual decisão foi adiada e precisa ser tomada nas próximas 24 horas?",
		"Que sinal concreto mostrará que você está no caminho certo?",
	}
}

func defaultActionBlocks() []ActionBlock {
	return []ActionBlock{
		{
			Block: 1,
			Title: "Bloco 1 - Diagnóstico de Base",
			Actions: []string{
				"Definir objetivo final em uma frase mensurável.",
				"Quebrar o projeto em três marcos com prazo.",
				"Eliminar uma frente paralela que drena foco.",
			},
		},
		{
			Block: 2,
			Title: "Bloco 2 - Alinhamento Estrutural",
			Actions: []string{
				"Priorizar três tarefas críticas da semana.",
				"Reservar bloco diário de execução sem interrupção.",
				"Criar revisão semanal de riscos e ajustes.",
			},
		},
		{
			Block: 3,
			Title: "Bloco 3 - Consolidação de Execução",
			Actions: []string{
				"Fechar pendência técnica de maior impacto.",
				"Formalizar rotina de acompanhamento de resultados.",
				"Registrar aprendizados e padronizar próximos ciclos.",
			},
		},
	}
}

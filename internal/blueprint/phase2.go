package blueprint

import "github.com/cortexdiag/cortex/internal/pillar"

func defaultTechnicalBank() map[pillar.Pillar][]string {
	return map[pillar.Pillar][]string{
		pillar.Clarity: {
			"A meta principal está descrita em formato mensurável?",
			"O objetivo final tem prazo explícito e validado?",
			"Você possui critérios claros de sucesso para a conclusão?",
			"As prioridades da semana convergem para a meta central?",
			"Existe um indicador líder para acompanhar progresso antecipado?",
			"O escopo atual está protegido contra desvios frequentes?",
			"Você revisa semanalmente o alinhamento entre estratégia e execução?",
			"As decisões de prioridade seguem critérios objetivos?",
			"Você tem visibilidade das atividades que não geram valor?",
			"Há clareza sobre o que deve ser descartado neste ciclo?",
			"Os principais riscos estratégicos estão mapeados?",
			"Você consegue comunicar o plano de forma simples para terceiros?",
			"Existe definição explícita do que NÃO faz parte do projeto?",
			"Você converte aprendizado de ciclo anterior em ajuste estratégico?",
		},
		pillar.Structure: {
			"Há um cronograma com marcos e responsáveis definidos?",
			"As dependências críticas entre tarefas estão documentadas?",
			"Você possui rotina fixa de revisão de planejamento?",
			"Existe critério claro para priorização diária de tarefas?",
			"Os riscos operacionais são monitorados ativamente?",
			"Você possui plano de contingência para atrasos relevantes?",
			"As tarefas possuem definição de pronto objetiva?",
			"Existe padronização mínima para registro de decisões?",
			"Você acompanha capacidade real antes de assumir novas demandas?",
			"Há organização clara de backlog por impacto e urgência?",
			"As reuniões (se houver) geram decisões acionáveis?",
			"Você revisa prazos com base em dados e não em expectativa?",
			"Existe processo para reduzir retrabalho recorrente?",
			"Você tem um painel único para visão do andamento do projeto?",
		},
		pillar.Execution: {
			"Você mantém blocos de foco profundo durante a semana?",
			"As tarefas prioritárias são concluídas no prazo planejado?",
			"Você evita iniciar novas frentes antes de concluir as atuais?",
			"Existe disciplina para executar o plano mesmo sob pressão?",
			"Você mede produtividade por entregas concluídas?",
			"Você reduz interrupções e trocas de contexto no dia a dia?",
			"Há revisão objetiva dos resultados de cada semana?",
			"Você transforma objetivos em ações no mesmo ciclo de planejamento?",
			"Existe ritmo sustentável de execução sem picos de exaustão?",
			"Você encerra pendências críticas antes de abrir novas tarefas?",
			"Você mantém consistência de entrega em semanas difíceis?",
			"As falhas de execução geram ajustes imediatos de processo?",
			"Você utiliza checkpoints para garantir avanço real?",
			"Há cadência definida para validar progresso e qualidade?",
		},
		pillar.Emotional: {
			"Você reconhece rapidamente gatilhos que travam sua execução?",
			"Você mantém clareza mental sob pressão de prazo?",
			"Você consegue retomar foco após frustrações?",
			"Você evita decisões impulsivas em momentos de ansiedade?",
			"Há rotina para regular energia e evitar sobrecarga?",
			"Você mantém autoconfiança após erros pontuais?",
			"Você consegue separar crítica técnica de crítica pessoal?",
			"Você mantém constância de ação mesmo sem motivação alta?",
			"Você pede apoio quando identifica bloqueio emocional?",
			"Você percebe cedo sinais de autossabotagem?",
			"Você consegue agir com desconforto sem paralisar?",
			"Você protege seu foco contra ruminação e excesso de preocupação?",
			"Você mantém perspectiva estratégica em momentos de tensão?",
			"Você encerra o dia com sensação de avanço, não de dispersão?",
		},
	}
}

func defaultStateQuestions() []string {
	return []string{
		"Hoje você sente que o projeto está sob controle?",
		"Seu nível atual de energia sustenta a execução diária?",
		"Você percebe progresso real nas últimas duas semanas?",
		"Sua rotina atual favorece consistência de entrega?",
		"Seu ambiente atual apoia foco e tomada de decisão?",
		"Você acredita estar próximo de concluir o projeto?",
	}
}

package intervention

import "github.com/wemarques/dashboard-financeiro/internal/domain"

// reflectiveQuestions holds the per-category question banks. The
// "noturno" bank uses an Xh placeholder replaced with the current hour;
// "alto_valor" applies to purchases of 200 or more.
var reflectiveQuestions = map[string][]string{
	"default": {
		"Esta compra estava no seu planejamento?",
		"Como você vai se sentir amanhã com esta decisão?",
		"Você realmente precisa disso agora?",
		"O que aconteceria se você esperasse uma semana?",
		"Esta compra te aproxima ou afasta das suas metas?",
	},
	"delivery": {
		"Você tem comida em casa que poderia preparar?",
		"Quanto você já gastou com delivery esta semana?",
		"Cozinhar não seria mais saudável e econômico?",
		"Este pedido é por fome real ou por impulso?",
	},
	"jogos": {
		"Quanto tempo e dinheiro você investiu em jogos este mês?",
		"Este gasto vai te trazer satisfação duradoura?",
		"Você está jogando para se divertir ou para escapar?",
		"O que mais você poderia fazer com esse valor?",
	},
	"compras": {
		"Você pesquisou preços em outros lugares?",
		"Este item vai ser usado regularmente?",
		"Você tem algo similar que poderia usar?",
		"Por que você quer isso agora e não daqui a uma semana?",
	},
	"lazer": {
		"Existem alternativas gratuitas para este programa?",
		"Quanto você já gastou com lazer este mês?",
		"Este momento de lazer será memorável?",
		"Você poderia fazer algo igualmente prazeroso gastando menos?",
	},
	"noturno": {
		"Você está tomando esta decisão descansado?",
		"Compras de madrugada tendem a ser por impulso. É o caso?",
		"O que te levou a querer comprar isso agora, às Xh?",
		"Amanhã de manhã você ainda vai querer isso?",
	},
	"alto_valor": {
		"Você tem reserva de emergência?",
		"Este valor representa quanto do seu salário?",
		"Você conversou com alguém sobre esta compra?",
		"Este gasto está no seu orçamento mensal?",
	},
}

// alternatives holds per-category substitute suggestions.
var alternatives = map[string][]string{
	"delivery": {
		"Preparar uma refeição simples em casa",
		"Pedir algo mais barato no mesmo lugar",
		"Usar cupom de desconto se disponível",
		"Dividir o pedido com alguém",
	},
	"compras": {
		"Adicionar à lista de desejos e esperar 48h",
		"Procurar produto similar usado",
		"Esperar uma promoção ou Black Friday",
		"Verificar se já não tem algo parecido",
	},
	"lazer": {
		"Buscar eventos gratuitos na cidade",
		"Fazer um programa em casa",
		"Usar pontos ou milhas acumulados",
		"Combinar com amigos e dividir custos",
	},
	"assinaturas": {
		"Cancelar assinaturas não utilizadas primeiro",
		"Buscar plano família ou estudante",
		"Usar período de teste gratuito",
		"Alternar entre serviços mensalmente",
	},
}

// mainMessages holds two templates per level; one is chosen at random.
var mainMessages = map[domain.InterventionLevel][]string{
	domain.InterventionGentle: {
		"Tudo bem prosseguir, mas considere estas reflexões:",
		"Antes de confirmar, uma rápida reflexão:",
	},
	domain.InterventionModerate: {
		"Atenção! Esta compra merece uma reflexão.",
		"Pause um momento e considere:",
	},
	domain.InterventionStrong: {
		"Alerta: Alto risco de compra por impulso!",
		"Cuidado! Este padrão indica possível impulso.",
	},
	domain.InterventionCritical: {
		"ATENÇÃO MÁXIMA: Bloqueio de segurança ativado!",
		"PARE! Esta compra foi temporariamente bloqueada.",
	},
}

// suggestedActions holds the fixed action set per level.
var suggestedActions = map[domain.InterventionLevel][]domain.ActionChoice{
	domain.InterventionGentle: {
		{Action: "proceed", Label: "Prosseguir", Style: "primary"},
		{Action: "cancel", Label: "Cancelar", Style: "secondary"},
	},
	domain.InterventionModerate: {
		{Action: "reflect", Label: "Refletir mais", Style: "primary"},
		{Action: "proceed", Label: "Prosseguir mesmo assim", Style: "secondary"},
		{Action: "cancel", Label: "Cancelar", Style: "secondary"},
	},
	domain.InterventionStrong: {
		{Action: "wait", Label: "Aguardar período de reflexão", Style: "primary"},
		{Action: "add_to_wishlist", Label: "Adicionar à lista de desejos", Style: "secondary"},
		{Action: "cancel", Label: "Cancelar", Style: "danger"},
	},
	domain.InterventionCritical: {
		{Action: "cancel", Label: "Cancelar (Recomendado)", Style: "danger"},
		{Action: "override", Label: "Desbloquear (requer confirmação)", Style: "warning"},
	},
}

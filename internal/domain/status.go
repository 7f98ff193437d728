package domain

// Estatus del pipeline de aprobación. Las cinco etapas ordenadas forman el
// registro; Rechazado es un desenlace terminal y queda fuera de la lista.
const (
	EstatusProspecto   = "Prospecto"
	EstatusEntregaDocs = "Entrega de documentos"
	EstatusAnalisis    = "Análisis"
	EstatusAprobacion  = "Aprobación"
	EstatusDispersion  = "Dispersión"
	EstatusRechazado   = "Rechazado"
)

// PipelineStages es la lista ordenada de etapas no terminales
var PipelineStages = []string{
	EstatusProspecto,
	EstatusEntregaDocs,
	EstatusAnalisis,
	EstatusAprobacion,
	EstatusDispersion,
}

// stageLabels son etiquetas cortas para presentación
var stageLabels = map[string]string{
	EstatusProspecto:   "Prospecto",
	EstatusEntregaDocs: "Entrega docs",
	EstatusAnalisis:    "Análisis",
	EstatusAprobacion:  "Aprobación",
	EstatusDispersion:  "Dispersión",
	EstatusRechazado:   "Rechazado",
}

// StageIndex devuelve la posición ordinal de una etapa dentro del pipeline.
// Para Rechazado o valores desconocidos devuelve -1: el registro es una tabla
// de consulta de mejor esfuerzo, no una validación de escritura.
func StageIndex(estatus string) int {
	for i, stage := range PipelineStages {
		if stage == estatus {
			return i
		}
	}
	return -1
}

// StageLabel devuelve la etiqueta corta de un estatus. Un valor que no está
// en el registro se devuelve tal cual, sin fallar.
func StageLabel(estatus string) string {
	if label, ok := stageLabels[estatus]; ok {
		return label
	}
	return estatus
}

// IsValidStatus indica si el valor es una etapa del registro o el
// centinela Rechazado
func IsValidStatus(estatus string) bool {
	return estatus == EstatusRechazado || StageIndex(estatus) >= 0
}

// IsTerminal indica si el estatus cierra el caso (Dispersión o Rechazado)
func IsTerminal(estatus string) bool {
	return estatus == EstatusDispersion || estatus == EstatusRechazado
}

// Productos que maneja la empresa
const (
	ProductoNomina            = "Crédito de nómina"
	ProductoArrendamientoMoto = "Arrendamiento de motos"
	ProductoCreditoMoto       = "Crédito de motos"
)

// Productos es la enumeración completa de productos
var Productos = []string{
	ProductoNomina,
	ProductoArrendamientoMoto,
	ProductoCreditoMoto,
}

// IsMotoProduct indica si el producto pertenece a la línea de motos.
// Todo lo que no es crédito de nómina cuenta como unidad de moto.
func IsMotoProduct(producto string) bool {
	return producto != ProductoNomina
}

// Meses en español, indexados 1-12 vía Meses[mes-1]
var Meses = []string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// NombreMes devuelve el nombre del mes (1-12); fuera de rango regresa vacío
func NombreMes(mes int) string {
	if mes < 1 || mes > 12 {
		return ""
	}
	return Meses[mes-1]
}

// Sucursales de crédito de nómina
var Sucursales = []string{
	"Corporativo",
	"Campeche",
	"Quintana Roo",
	"Valladolid",
}

// SucursalesMotos incluye las agencias de motos
var SucursalesMotos = []string{
	"Corporativo",
	"Quintana Roo",
	"Campeche",
	"Valladolid",
	"Kukulcán",
	"Itzaes",
}

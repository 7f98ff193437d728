package domain

import "time"

// Client representa un caso de crédito o financiamiento en el pipeline.
// MesRegistro y AnioRegistro se desnormalizan de FechaInicio al crear el
// registro y son la partición primaria de consulta; no cambian después.
type Client struct {
	ID               int64      `json:"id"`
	Folio            string     `json:"folio"`
	Ejecutivo        string     `json:"ejecutivo"`
	EjecutivoID      *int64     `json:"ejecutivo_id,omitempty"`
	NombreCliente    string     `json:"nombre_cliente"`
	Producto         string     `json:"producto"`
	Monto            float64    `json:"monto"`
	Sucursal         string     `json:"sucursal,omitempty"`
	Convenio         *string    `json:"convenio,omitempty"`
	FechaInicio      time.Time  `json:"fecha_inicio"`
	Estatus          string     `json:"estatus"`
	Actualizacion    string     `json:"actualizacion"`
	EstatusUpdatedAt *time.Time `json:"estatus_updated_at,omitempty"`
	FechaFinal       *time.Time `json:"fecha_final,omitempty"`
	MesRegistro      int        `json:"mes_registro"`
	AnioRegistro     int        `json:"anio_registro"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// InPipeline indica si el caso sigue abierto (ni dispersado ni rechazado)
func (c *Client) InPipeline() bool {
	return !IsTerminal(c.Estatus)
}

// ClientFilters acota una consulta de clientes. Mes y Anio filtran por el
// periodo de registro; Ejecutivo restringe a los casos propios de un
// ejecutivo (rol ejecutivo).
type ClientFilters struct {
	Mes       int
	Anio      int
	Ejecutivo string
	Estatus   string
	Producto  string
}

// UpdateClientRequest es una edición parcial de campos directos de un
// cliente; los campos nil no se tocan. El estatus NO se edita por aquí,
// solo por la transición de estatus.
type UpdateClientRequest struct {
	ID            int64    `json:"id"`
	Ejecutivo     *string  `json:"ejecutivo"`
	NombreCliente *string  `json:"nombre_cliente"`
	Producto      *string  `json:"producto"`
	Monto         *float64 `json:"monto"`
	Sucursal      *string  `json:"sucursal"`
	Convenio      *string  `json:"convenio"`
	Actualizacion *string  `json:"actualizacion"`
}

// DiasSinActualizar devuelve los días completos transcurridos desde el
// último cambio de estatus; -1 cuando nunca se ha transicionado.
func (c *Client) DiasSinActualizar(now time.Time) int {
	if c.EstatusUpdatedAt == nil {
		return -1
	}
	return int(now.Sub(*c.EstatusUpdatedAt).Hours() / 24)
}

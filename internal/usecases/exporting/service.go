package exporting

import (
	"fmt"
	"time"

	"github.com/credivive/pipeline-manager-api/internal/domain"
	"github.com/credivive/pipeline-manager-api/internal/usecases/aggregating"
	"github.com/xuri/excelize/v2"
)

// ResumenSheet es el nombre de la hoja de totales del reporte
const ResumenSheet = "Resumen"

var clientHeaders = []string{
	"Ejecutivo", "Cliente", "Producto", "Monto",
	"Fecha inicio", "Estatus", "Actualización", "Fecha final",
}

var resumenHeaders = []string{
	"Mes", "Total clientes", "Dispersiones", "En pipeline",
	"Monto nómina dispersado", "Motos vendidas (uds)",
}

// BuildWorkbook arma el libro del reporte: una hoja por mes con registros
// (los meses vacíos se saltan) más la hoja Resumen con los totales
// mensuales. mes == 0 exporta el año completo.
func BuildWorkbook(records []*domain.Client, mes, anio int) (*excelize.File, error) {
	file := excelize.NewFile()

	byMonth := make(map[int][]*domain.Client)
	for _, record := range records {
		if record.AnioRegistro != anio {
			continue
		}
		if mes != 0 && record.MesRegistro != mes {
			continue
		}
		byMonth[record.MesRegistro] = append(byMonth[record.MesRegistro], record)
	}

	first := true
	for m := 1; m <= 12; m++ {
		monthRecords, ok := byMonth[m]
		if !ok {
			continue
		}

		sheet := domain.NombreMes(m)
		if first {
			// El libro nace con una hoja por defecto; se renombra en vez
			// de dejarla colgando
			if err := file.SetSheetName(file.GetSheetName(0), sheet); err != nil {
				return nil, fmt.Errorf("error al renombrar la hoja: %w", err)
			}
			first = false
		} else {
			if _, err := file.NewSheet(sheet); err != nil {
				return nil, fmt.Errorf("error al crear la hoja %s: %w", sheet, err)
			}
		}

		if err := writeClientSheet(file, sheet, monthRecords); err != nil {
			return nil, err
		}
	}

	resumenSheet := ResumenSheet
	if first {
		// Sin registros el libro solo lleva el resumen
		if err := file.SetSheetName(file.GetSheetName(0), resumenSheet); err != nil {
			return nil, fmt.Errorf("error al renombrar la hoja: %w", err)
		}
	} else {
		if _, err := file.NewSheet(resumenSheet); err != nil {
			return nil, fmt.Errorf("error al crear la hoja de resumen: %w", err)
		}
	}

	if err := writeResumenSheet(file, resumenSheet, byMonth); err != nil {
		return nil, err
	}

	return file, nil
}

func writeClientSheet(file *excelize.File, sheet string, records []*domain.Client) error {
	if err := file.SetSheetRow(sheet, "A1", &clientHeaders); err != nil {
		return fmt.Errorf("error al escribir encabezados en %s: %w", sheet, err)
	}

	for i, record := range records {
		fechaFinal := "—"
		if record.FechaFinal != nil {
			fechaFinal = record.FechaFinal.Format(time.DateOnly)
		}

		row := []interface{}{
			record.Ejecutivo,
			record.NombreCliente,
			record.Producto,
			record.Monto,
			record.FechaInicio.Format(time.DateOnly),
			record.Estatus,
			record.Actualizacion,
			fechaFinal,
		}

		cell := fmt.Sprintf("A%d", i+2)
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("error al escribir fila en %s: %w", sheet, err)
		}
	}

	return nil
}

func writeResumenSheet(file *excelize.File, sheet string, byMonth map[int][]*domain.Client) error {
	if err := file.SetSheetRow(sheet, "A1", &resumenHeaders); err != nil {
		return fmt.Errorf("error al escribir encabezados del resumen: %w", err)
	}

	rowIndex := 2
	for m := 1; m <= 12; m++ {
		records, ok := byMonth[m]
		if !ok {
			continue
		}

		stats := aggregating.Summarize(records, aggregating.Window{Kind: aggregating.WindowAll})

		row := []interface{}{
			domain.NombreMes(m),
			stats.TotalClientes,
			stats.Dispersiones,
			stats.Pipeline,
			stats.MontoNomina,
			stats.UnidadesMotos,
		}

		cell := fmt.Sprintf("A%d", rowIndex)
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("error al escribir fila del resumen: %w", err)
		}
		rowIndex++
	}

	return nil
}

// Filename arma el nombre del archivo adjunto: Credivive_<Mes>_<Año>.xlsx
// para un mes o Credivive_Reporte_<Año>.xlsx para el año completo
func Filename(mes, anio int) string {
	if mes != 0 {
		return fmt.Sprintf("Credivive_%s_%d.xlsx", domain.NombreMes(mes), anio)
	}
	return fmt.Sprintf("Credivive_Reporte_%d.xlsx", anio)
}

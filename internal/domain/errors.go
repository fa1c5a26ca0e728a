package domain

import "errors"

// Errores de dominio (sin dependencias externas). Los casos esperados se
// devuelven como sentinelas y los handlers los mapean a códigos HTTP con
// errors.Is; solo los fallos inesperados se propagan envueltos con %w.
var (
	ErrProductNotFound       = errors.New("producto no encontrado")
	ErrProductInactive       = errors.New("el producto está desactivado")
	ErrStockNotFound         = errors.New("stock no encontrado")
	ErrInsufficientStock     = errors.New("cantidad insuficiente de stock para esta salida")
	ErrInvalidData           = errors.New("datos inválidos")
	ErrDependencyUnavailable = errors.New("servicio de productos no disponible")
)

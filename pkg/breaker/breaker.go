// Package breaker implementa un circuit breaker de tres estados
// (CLOSED, OPEN, HALF_OPEN) para proteger llamadas a dependencias externas.
// No pretende ser una librería genérica: cubre lo que necesita la validación
// de productos del inventario, pero acepta cualquier unidad de trabajo.
package breaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State estado actual del circuito.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

// String representación legible del estado (para logs y eventos).
func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// ErrOpen se devuelve cuando el circuito está abierto y la operación
// no llega a ejecutarse. Los callers deben tratarlo como "dependencia no
// disponible", distinto de un fallo de la operación en sí.
var ErrOpen = errors.New("circuito abierto: operación no ejecutada")

// ErrCallTimeout indica que la operación superó el timeout por llamada.
// Cuenta como fallo para el circuito aunque la operación termine después.
var ErrCallTimeout = errors.New("timeout de la operación")

// Settings parámetros del breaker. Los ceros se sustituyen por defaults
// equivalentes a los del servicio original (3s / 50% / 30s).
type Settings struct {
	Name             string
	CallTimeout      time.Duration // timeout por llamada
	FailureThreshold float64       // porcentaje de fallos que abre el circuito
	MinRequests      int           // volumen mínimo en la ventana antes de evaluar
	Window           time.Duration // ventana móvil sobre la que se calcula el ratio
	ResetTimeout     time.Duration // tiempo en OPEN antes de permitir una sonda

	// OnStateChange se invoca (fuera del lock) en cada transición de estado.
	OnStateChange func(name string, from, to State)
}

type outcome struct {
	at time.Time
	ok bool
}

// Breaker circuit breaker con estado compartido entre llamadas concurrentes.
// Todas las transiciones y el conteo de fallos se hacen bajo un único mutex
// para que no se pierdan actualizaciones.
type Breaker struct {
	name             string
	callTimeout      time.Duration
	failureThreshold float64
	minRequests      int
	window           time.Duration
	resetTimeout     time.Duration
	onStateChange    func(name string, from, to State)

	mu            sync.Mutex
	state         State
	outcomes      []outcome
	openedAt      time.Time
	probeInFlight bool

	now func() time.Time // inyectable en tests
}

// New construye el breaker en estado CLOSED.
func New(s Settings) *Breaker {
	if s.CallTimeout <= 0 {
		s.CallTimeout = 3 * time.Second
	}
	if s.FailureThreshold <= 0 {
		s.FailureThreshold = 50
	}
	if s.MinRequests <= 0 {
		s.MinRequests = 5
	}
	if s.Window <= 0 {
		s.Window = 10 * time.Second
	}
	if s.ResetTimeout <= 0 {
		s.ResetTimeout = 30 * time.Second
	}
	return &Breaker{
		name:             s.Name,
		callTimeout:      s.CallTimeout,
		failureThreshold: s.FailureThreshold,
		minRequests:      s.MinRequests,
		window:           s.Window,
		resetTimeout:     s.ResetTimeout,
		onStateChange:    s.OnStateChange,
		state:            StateClosed,
		now:              time.Now,
	}
}

// State devuelve el estado actual (considerando la expiración del resetTimeout).
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.resetTimeout {
		return StateHalfOpen
	}
	return b.state
}

// Do ejecuta op bajo el circuito. Si el circuito está OPEN devuelve ErrOpen
// sin invocar op. Una llamada que supere CallTimeout cuenta como fallo y
// devuelve ErrCallTimeout. El resultado de cada llamada alimenta la ventana
// de fallos.
func (b *Breaker) Do(ctx context.Context, op func(context.Context) error) error {
	if err := b.admit(); err != nil {
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, b.callTimeout)
	defer cancel()

	// op corre en su propia goroutine: el timeout se respeta aunque la
	// operación ignore el contexto.
	done := make(chan error, 1)
	go func() { done <- op(callCtx) }()

	var err error
	select {
	case err = <-done:
	case <-callCtx.Done():
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			err = ErrCallTimeout
		} else {
			err = callCtx.Err()
		}
	}

	b.record(err == nil)
	return err
}

// admit decide si la llamada pasa. En OPEN tras resetTimeout deja pasar una
// única sonda (HALF_OPEN); las demás llamadas se cortocircuitan.
func (b *Breaker) admit() error {
	b.mu.Lock()

	var transition func()
	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.resetTimeout {
			b.mu.Unlock()
			return ErrOpen
		}
		transition = b.transitionLocked(StateHalfOpen)
		b.probeInFlight = true
	case StateHalfOpen:
		if b.probeInFlight {
			b.mu.Unlock()
			return ErrOpen
		}
		b.probeInFlight = true
	}

	b.mu.Unlock()
	if transition != nil {
		transition()
	}
	return nil
}

// record registra el resultado y aplica las transiciones de estado.
func (b *Breaker) record(success bool) {
	b.mu.Lock()

	var transition func()
	switch b.state {
	case StateHalfOpen:
		b.probeInFlight = false
		if success {
			// La sonda funcionó: cerrar y reiniciar contadores
			b.outcomes = nil
			transition = b.transitionLocked(StateClosed)
		} else {
			// La sonda falló: reabrir y reiniciar el reloj de reset
			b.openedAt = b.now()
			transition = b.transitionLocked(StateOpen)
		}
	case StateClosed:
		now := b.now()
		b.outcomes = append(b.outcomes, outcome{at: now, ok: success})
		b.prune(now)
		if b.shouldOpen() {
			b.openedAt = now
			transition = b.transitionLocked(StateOpen)
		}
	}

	b.mu.Unlock()
	if transition != nil {
		transition()
	}
}

// prune descarta resultados fuera de la ventana móvil.
func (b *Breaker) prune(now time.Time) {
	cutoff := now.Add(-b.window)
	i := 0
	for ; i < len(b.outcomes); i++ {
		if b.outcomes[i].at.After(cutoff) {
			break
		}
	}
	b.outcomes = b.outcomes[i:]
}

// shouldOpen evalúa el umbral de fallos sobre la ventana actual.
func (b *Breaker) shouldOpen() bool {
	if len(b.outcomes) < b.minRequests {
		return false
	}
	failures := 0
	for _, o := range b.outcomes {
		if !o.ok {
			failures++
		}
	}
	ratio := float64(failures) / float64(len(b.outcomes)) * 100
	return ratio >= b.failureThreshold
}

// transitionLocked cambia el estado y devuelve la notificación pendiente,
// que debe invocarse después de soltar el lock.
func (b *Breaker) transitionLocked(to State) func() {
	from := b.state
	b.state = to
	if b.onStateChange == nil || from == to {
		return nil
	}
	cb, name := b.onStateChange, b.name
	return func() { cb(name, from, to) }
}

package core

// Firmware owns one of each runtime component, wired together.
// Interrupt handlers call RotationEdge, PressEdge and ServiceBus; the poll
// loop calls Tick at a fixed interval.
type Firmware struct {
	Config     *Config
	Decoder    *Decoder
	Display    *Display
	Registers  *RegisterFile
	Responder  *Responder
	Controller *Controller

	scheduler Scheduler
	report    Task
	ticks     uint32
}

// NewFirmware builds the runtime for cfg on top of the given LED port and
// encoder companion pin
func NewFirmware(cfg *Config, port PortDriver, companion PinLevel) (*Firmware, error) {
	display, err := NewDisplay(cfg, port)
	if err != nil {
		return nil, err
	}

	fw := &Firmware{
		Config:    cfg,
		Decoder:   NewDecoder(companion, cfg.LockoutTicks),
		Display:   display,
		Registers: &RegisterFile{},
	}
	fw.Responder = NewResponder(cfg.BusBaseAddress, cfg.BusAddressMask, fw.Registers)
	fw.Controller = NewController(cfg, fw.Display, fw.Decoder, fw.Responder, fw.Registers)

	setEventClock(fw.Uptime)

	if cfg.ReportTicks != 0 {
		fw.report = Task{
			WakeTick: cfg.ReportTicks,
			Handler:  fw.reportStatus,
		}
		fw.scheduler.Schedule(&fw.report)
	}

	return fw, nil
}

// Tick runs one pass of the poll loop
func (fw *Firmware) Tick() {
	fw.ticks++

	fw.Display.Tick()
	fw.Decoder.Tick()
	fw.Controller.Tick()

	fw.scheduler.Dispatch(fw.ticks)
}

// Uptime returns the number of ticks run
func (fw *Firmware) Uptime() uint32 {
	return fw.ticks
}

// RotationEdge is the encoder A channel interrupt entry point
func (fw *Firmware) RotationEdge() {
	fw.Decoder.RotationEdge()
}

// PressEdge is the push switch interrupt entry point
func (fw *Firmware) PressEdge() {
	fw.Decoder.PressEdge()
}

// ServiceBus is the bus peripheral interrupt entry point
func (fw *Firmware) ServiceBus(p BusPeripheral) {
	fw.Responder.Service(p)
}

// reportStatus queues a one-line summary of the controller and bus state,
// followed by the events recorded since the last report
func (fw *Firmware) reportStatus(t *Task) uint8 {
	stats := fw.Responder.Stats()
	DebugAsync("mode=" + fw.Controller.Mode().String() +
		" anim=" + itoa(int(fw.Controller.Animation())) +
		" speed=" + itoa(int(fw.Controller.Speed())) +
		" focus=" + itoa(fw.Controller.Focus()) +
		" tx=" + utoa(stats.Transactions) +
		" err=" + utoa(stats.Errors) +
		" overread=" + utoa(stats.Overreads) +
		" truncated=" + utoa(stats.Truncated))

	for _, evt := range DrainEvents() {
		DebugAsync(FormatEvent(evt))
	}

	t.WakeTick += fw.Config.ReportTicks
	return SF_RESCHEDULE
}

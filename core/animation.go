package core

// frameComet steps the focus and draws it with a tail behind it
func (c *Controller) frameComet() {
	dir := c.direction()
	n := c.display.Len()
	c.focus = wrap(c.focus+dir, n)

	c.display.Clear()
	for i := 1; i <= c.tail; i++ {
		c.paint(c.focus-i*dir, c.partialIntensity)
	}
	c.paint(c.focus, c.fullIntensity)
}

// frameSymmetricComet steps the focus and draws tails ahead and behind it
func (c *Controller) frameSymmetricComet() {
	dir := c.direction()
	n := c.display.Len()
	c.focus = wrap(c.focus+dir, n)

	c.display.Clear()
	for i := 1; i <= c.tail; i++ {
		c.paint(c.focus+i, c.partialIntensity)
		c.paint(c.focus-i, c.partialIntensity)
	}
	c.paint(c.focus, c.fullIntensity)
}

// frameSweep grows a dim trail from the focus for one lap, erases it on the
// next lap, then steps the focus
func (c *Controller) frameSweep() {
	dir := c.direction()
	n := c.display.Len()

	c.sweep++
	if c.sweep >= 2*n {
		c.focus = wrap(c.focus+dir, n)
		c.sweep = 0
	}

	c.display.Clear()
	for i := 0; i < c.sweep; i++ {
		if i < n {
			c.paint(c.focus+i*dir, c.sweepIntensity)
		} else {
			c.paint(c.focus+i*dir, 0)
		}
	}
	c.paint(c.focus, c.fullIntensity)
}

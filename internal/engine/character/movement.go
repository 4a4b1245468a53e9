package character

import "github.com/go-gl/mathgl/mgl32"

// Controller integrates player movement against the voxel grid.
// Position is the eye position.
type Controller struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3

	res      *Resolver
	params   MoveParams
	flying   bool
	grounded bool
}

// NewController creates a walking controller with its eye at pos.
func NewController(res *Resolver, params MoveParams, pos mgl32.Vec3) *Controller {
	return &Controller{
		Position: pos,
		res:      res,
		params:   params,
	}
}

// Flying reports whether the controller is in flight mode.
func (c *Controller) Flying() bool {
	return c.flying
}

// Grounded reports whether the feet rested on ground after the last update.
func (c *Controller) Grounded() bool {
	return c.grounded
}

// SetFlying switches between walking and flying. Vertical velocity is reset.
func (c *Controller) SetFlying(flying bool) {
	c.flying = flying
	c.Velocity[1] = 0
}

// Feet returns the y of the bottom of the body.
func (c *Controller) Feet() float32 {
	return c.Position.Y() - c.res.body.EyeHeight
}

// Update advances the controller by dt seconds.
func (c *Controller) Update(dt float32, in Intent) {
	if c.flying {
		c.updateFlying(dt, in)
	} else {
		c.updateWalking(dt, in)
	}
	c.move(dt)
	c.checkGround(in)
}

func (c *Controller) steer(in Intent, speed float32) {
	if in.Move.Len() > 0 {
		m := in.Move.Normalize().Mul(speed)
		c.Velocity[0] = m[0]
		c.Velocity[2] = m[1]
		return
	}
	c.Velocity[0] *= c.params.Damping
	c.Velocity[2] *= c.params.Damping
}

func (c *Controller) updateWalking(dt float32, in Intent) {
	c.steer(in, c.params.WalkSpeed)

	if in.Jump && c.grounded {
		c.Velocity[1] = c.params.JumpSpeed
		c.grounded = false
	}
	if !c.grounded {
		c.Velocity[1] += c.params.Gravity * dt
		if c.Velocity[1] < c.params.TerminalVelocity {
			c.Velocity[1] = c.params.TerminalVelocity
		}
	}
}

func (c *Controller) updateFlying(_ float32, in Intent) {
	c.steer(in, c.params.FlySpeed)

	switch {
	case in.Up:
		c.Velocity[1] = c.params.FlySpeed
	case in.Down:
		c.Velocity[1] = -c.params.FlySpeed
	default:
		c.Velocity[1] = 0
	}
}

// move applies velocity one axis at a time (x, z, then y) so the body slides
// along walls instead of stopping dead.
func (c *Controller) move(dt float32) {
	d := c.Velocity.Mul(dt)

	if d[0] != 0 || d[2] != 0 {
		next := c.Position
		next[0] += d[0]
		if !c.res.Collides(next) {
			c.Position[0] = next[0]
		}
		next = c.Position
		next[2] += d[2]
		if !c.res.Collides(next) {
			c.Position[2] = next[2]
		}
	}

	if d[1] != 0 {
		next := c.Position
		next[1] += d[1]
		if c.res.Collides(next) {
			c.Velocity[1] = 0
		} else {
			c.Position[1] = next[1]
		}
	}
}

func (c *Controller) checkGround(in Intent) {
	eye := c.res.body.EyeHeight

	if c.flying {
		if in.Down && c.Velocity.Y() < 0 {
			ground := c.res.GroundHeight(c.Position)
			if c.Feet()-ground <= c.params.AutoLandDistance {
				c.SetFlying(false)
				c.Position[1] = ground + eye
				c.grounded = true
				return
			}
		}
		c.grounded = false
		return
	}

	ground := c.res.GroundHeight(c.Position)
	if c.Feet()-ground <= c.params.GroundCheckDistance && c.Velocity.Y() <= 0 {
		if !c.grounded {
			c.Position[1] = ground + eye
			c.Velocity[1] = 0
		}
		c.grounded = true
		return
	}
	c.grounded = false
}

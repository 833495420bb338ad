package session

import (
	"fmt"

	"github.com/ironsheep/photo-tools-mcp/internal/adjust"
	errs "github.com/ironsheep/photo-tools-mcp/internal/errors"
)

// The setters below change the shared settings without rendering. Callers
// follow them with Release to refresh the preview.

// edit runs fn on the settings under the lock.
func (s *Session) edit(op string, fn func(*adjust.Settings) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireEditing(op); err != nil {
		return err
	}
	return fn(&s.settings)
}

// SetAdjustment stores v for id; nil resets id.
func (s *Session) SetAdjustment(id adjust.ID, v *float64) error {
	if !id.Valid() {
		return errs.Validation("set_adjustment", "unknown adjustment "+string(id))
	}
	return s.edit("set_adjustment", func(st *adjust.Settings) error {
		st.SetOptional(id, v)
		return nil
	})
}

// ResetAdjustment clears id.
func (s *Session) ResetAdjustment(id adjust.ID) error {
	return s.edit("reset_adjustment", func(st *adjust.Settings) error {
		st.Reset(id)
		return nil
	})
}

// ResetAll clears every adjustment and the filter. Crop is kept.
func (s *Session) ResetAll() error {
	return s.edit("reset_all", func(st *adjust.Settings) error {
		st.ResetAll()
		return nil
	})
}

// SelectFilter sets the preset filter; adjust.FilterNone removes it.
func (s *Session) SelectFilter(f adjust.Filter) error {
	if !f.Valid() {
		return errs.Validation("select_filter", fmt.Sprintf("unknown filter %q", f))
	}
	return s.edit("select_filter", func(st *adjust.Settings) error {
		st.SetFilter(f)
		return nil
	})
}

// RotateLeft turns the crop 90° counter-clockwise.
func (s *Session) RotateLeft() error {
	return s.edit("rotate_left", func(st *adjust.Settings) error {
		st.UpdateCrop((*adjust.Crop).RotateLeft)
		return nil
	})
}

// RotateRight turns the crop 90° clockwise.
func (s *Session) RotateRight() error {
	return s.edit("rotate_right", func(st *adjust.Settings) error {
		st.UpdateCrop((*adjust.Crop).RotateRight)
		return nil
	})
}

// ToggleFlipHorizontal mirrors the crop left to right.
func (s *Session) ToggleFlipHorizontal() error {
	return s.edit("flip_horizontal", func(st *adjust.Settings) error {
		st.UpdateCrop(func(c *adjust.Crop) { c.FlipHorizontal = !c.FlipHorizontal })
		return nil
	})
}

// ToggleFlipVertical mirrors the crop top to bottom.
func (s *Session) ToggleFlipVertical() error {
	return s.edit("flip_vertical", func(st *adjust.Settings) error {
		st.UpdateCrop(func(c *adjust.Crop) { c.FlipVertical = !c.FlipVertical })
		return nil
	})
}

// SetFreeRotation sets the straighten angle. See adjust.Crop.SetFreeRotation for the range.
func (s *Session) SetFreeRotation(deg float64) error {
	return s.edit("free_rotation", func(st *adjust.Settings) error {
		st.UpdateCrop(func(c *adjust.Crop) { c.SetFreeRotation(deg) })
		return nil
	})
}

// SetAspectRatio sets the crop aspect constraint.
func (s *Session) SetAspectRatio(a adjust.AspectRatio) error {
	if _, err := adjust.ParseAspectRatio(string(a)); err != nil {
		return errs.Validation("aspect_ratio", err.Error())
	}
	return s.edit("aspect_ratio", func(st *adjust.Settings) error {
		st.UpdateCrop(func(c *adjust.Crop) { c.Aspect = a })
		return nil
	})
}

// ResetCrop restores the zero crop.
func (s *Session) ResetCrop() error {
	return s.edit("reset_crop", func(st *adjust.Settings) error {
		st.ResetCrop()
		return nil
	})
}

// AutoStraighten asks the renderer for a horizon-leveling rotation of the
// current image and applies it as the free rotation. It reports the angle
// and whether a horizon was found; when none is found the crop is unchanged.
func (s *Session) AutoStraighten() (float64, bool, error) {
	s.mu.Lock()
	if err := s.requireEditing("auto_straighten"); err != nil {
		s.mu.Unlock()
		return 0, false, err
	}
	src := s.lowRes[s.current]
	c := s.settings.Crop()
	s.mu.Unlock()

	angle, ok := s.renderer.SuggestStraighten(src, c)
	if !ok {
		return 0, false, nil
	}
	err := s.edit("auto_straighten", func(st *adjust.Settings) error {
		st.UpdateCrop(func(c *adjust.Crop) { c.SetFreeRotation(angle) })
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return angle, true, nil
}

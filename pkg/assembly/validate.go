package assembly

import "fmt"

// ValidationSeverity indicates whether a validation finding blocks export
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks export
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Subject  string // which body, joint, or frame has the problem
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Subject, e.Message)
}

// Validate checks the assembly's internal consistency and returns all
// findings. An empty slice means the assembly is ready for export. This
// function is read-only and never mutates the assembly.
func (a *Assembly) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, a.validateJoints()...)
	errs = append(errs, a.validateFrames()...)
	errs = append(errs, a.validateBodies()...)
	return errs
}

func (a *Assembly) validateJoints() []ValidationError {
	var errs []ValidationError
	for _, j := range a.Joints() {
		if _, ok := a.bodies[j.Body1]; !ok {
			errs = append(errs, ValidationError{
				Subject:  j.Name,
				Message:  fmt.Sprintf("references missing body %d", j.Body1),
				Severity: SeverityError,
			})
		}
		if _, ok := a.bodies[j.Body2]; !ok {
			errs = append(errs, ValidationError{
				Subject:  j.Name,
				Message:  fmt.Sprintf("references missing body %d", j.Body2),
				Severity: SeverityError,
			})
		}
		if j.Body1 == j.Body2 {
			errs = append(errs, ValidationError{
				Subject:  j.Name,
				Message:  "connects a body to itself",
				Severity: SeverityError,
			})
		}
		if j.Frame == nil {
			errs = append(errs, ValidationError{
				Subject:  j.Name,
				Message:  "has no placement frame",
				Severity: SeverityError,
			})
			continue
		}
		if !j.Frame.Rotation.IsOrthonormal(1e-6) {
			errs = append(errs, ValidationError{
				Subject:  j.Name,
				Message:  "frame rotation is not orthonormal",
				Severity: SeverityError,
			})
		}
		if j.Motorized && !j.Type.SupportsMotor() {
			errs = append(errs, ValidationError{
				Subject:  j.Name,
				Message:  fmt.Sprintf("%s joint carries a motor", j.Type),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

func (a *Assembly) validateFrames() []ValidationError {
	var errs []ValidationError
	for _, f := range a.Frames() {
		if owner, ok := a.frameOwner[f.Name]; ok {
			if _, exists := a.bodies[owner]; !exists {
				errs = append(errs, ValidationError{
					Subject:  f.Name,
					Message:  fmt.Sprintf("owned by missing body %d", owner),
					Severity: SeverityError,
				})
			}
		}
		if !f.Rotation.IsOrthonormal(1e-6) {
			errs = append(errs, ValidationError{
				Subject:  f.Name,
				Message:  "rotation is not orthonormal",
				Severity: SeverityError,
			})
		}
	}
	return errs
}

func (a *Assembly) validateBodies() []ValidationError {
	var errs []ValidationError
	for _, b := range a.Bodies() {
		if b.IsGround() {
			continue
		}
		if !b.HasGeometry() {
			errs = append(errs, ValidationError{
				Subject:  b.Name,
				Message:  "has no mass properties",
				Severity: SeverityWarning,
			})
		}
		if b.Volume != nil && *b.Volume <= 0 {
			errs = append(errs, ValidationError{
				Subject:  b.Name,
				Message:  "volume is not positive",
				Severity: SeverityError,
			})
		}
	}
	return errs
}

package modeldata

import "github.com/aretw0/eio/pkg/domain"

// WriteMaterialHead writes a material head record.
func (a *Agent) WriteMaterialHead(h domain.Head) error {
	return a.WriteHead(domain.CategoryMaterial, h)
}

// WriteMaterialField writes one field of the current material head.
func (a *Agent) WriteMaterialField(f domain.Field) error {
	return a.WriteField(domain.CategoryMaterial, f)
}

// ReadMaterialHead reads the next material head record.
func (a *Agent) ReadMaterialHead() (domain.Head, error) {
	return a.ReadHead(domain.CategoryMaterial)
}

// ReadMaterialField reads one field of the current material head into dst.
func (a *Agent) ReadMaterialField(dst *domain.Field) error {
	return a.ReadField(domain.CategoryMaterial, dst)
}

// WriteBoundaryConditionHead writes a boundary condition head record.
func (a *Agent) WriteBoundaryConditionHead(h domain.Head) error {
	return a.WriteHead(domain.CategoryBoundaryCondition, h)
}

// WriteBoundaryConditionField writes one field of the current boundary condition head.
func (a *Agent) WriteBoundaryConditionField(f domain.Field) error {
	return a.WriteField(domain.CategoryBoundaryCondition, f)
}

// ReadBoundaryConditionHead reads the next boundary condition head record.
func (a *Agent) ReadBoundaryConditionHead() (domain.Head, error) {
	return a.ReadHead(domain.CategoryBoundaryCondition)
}

// ReadBoundaryConditionField reads one field of the current boundary condition head into dst.
func (a *Agent) ReadBoundaryConditionField(dst *domain.Field) error {
	return a.ReadField(domain.CategoryBoundaryCondition, dst)
}

// WriteInitialConditionHead writes a initial condition head record.
func (a *Agent) WriteInitialConditionHead(h domain.Head) error {
	return a.WriteHead(domain.CategoryInitialCondition, h)
}

// WriteInitialConditionField writes one field of the current initial condition head.
func (a *Agent) WriteInitialConditionField(f domain.Field) error {
	return a.WriteField(domain.CategoryInitialCondition, f)
}

// ReadInitialConditionHead reads the next initial condition head record.
func (a *Agent) ReadInitialConditionHead() (domain.Head, error) {
	return a.ReadHead(domain.CategoryInitialCondition)
}

// ReadInitialConditionField reads one field of the current initial condition head into dst.
func (a *Agent) ReadInitialConditionField(dst *domain.Field) error {
	return a.ReadField(domain.CategoryInitialCondition, dst)
}

// WriteBodyEquationHead writes a body equation head record.
func (a *Agent) WriteBodyEquationHead(h domain.Head) error {
	return a.WriteHead(domain.CategoryBodyEquation, h)
}

// WriteBodyEquationField writes one field of the current body equation head.
func (a *Agent) WriteBodyEquationField(f domain.Field) error {
	return a.WriteField(domain.CategoryBodyEquation, f)
}

// ReadBodyEquationHead reads the next body equation head record.
func (a *Agent) ReadBodyEquationHead() (domain.Head, error) {
	return a.ReadHead(domain.CategoryBodyEquation)
}

// ReadBodyEquationField reads one field of the current body equation head into dst.
func (a *Agent) ReadBodyEquationField(dst *domain.Field) error {
	return a.ReadField(domain.CategoryBodyEquation, dst)
}

// WriteBodyForceHead writes a body force head record.
func (a *Agent) WriteBodyForceHead(h domain.Head) error {
	return a.WriteHead(domain.CategoryBodyForce, h)
}

// WriteBodyForceField writes one field of the current body force head.
func (a *Agent) WriteBodyForceField(f domain.Field) error {
	return a.WriteField(domain.CategoryBodyForce, f)
}

// ReadBodyForceHead reads the next body force head record.
func (a *Agent) ReadBodyForceHead() (domain.Head, error) {
	return a.ReadHead(domain.CategoryBodyForce)
}

// ReadBodyForceField reads one field of the current body force head into dst.
func (a *Agent) ReadBodyForceField(dst *domain.Field) error {
	return a.ReadField(domain.CategoryBodyForce, dst)
}

// WriteMeshParameterHead writes a mesh parameter head record.
func (a *Agent) WriteMeshParameterHead(h domain.Head) error {
	return a.WriteHead(domain.CategoryMeshParameter, h)
}

// WriteMeshParameterField writes one field of the current mesh parameter head.
func (a *Agent) WriteMeshParameterField(f domain.Field) error {
	return a.WriteField(domain.CategoryMeshParameter, f)
}

// ReadMeshParameterHead reads the next mesh parameter head record.
func (a *Agent) ReadMeshParameterHead() (domain.Head, error) {
	return a.ReadHead(domain.CategoryMeshParameter)
}

// ReadMeshParameterField reads one field of the current mesh parameter head into dst.
func (a *Agent) ReadMeshParameterField(dst *domain.Field) error {
	return a.ReadField(domain.CategoryMeshParameter, dst)
}

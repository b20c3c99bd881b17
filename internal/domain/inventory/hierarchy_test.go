package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/materias-primas/internal/domain/entity"
	"github.com/jhoicas/materias-primas/internal/domain/inventory"
)

func ptr(s string) *string { return &s }

func TestSiteIndex_Subtree(t *testing.T) {
	idx := inventory.NewSiteIndex([]*entity.Warehouse{
		{ID: "UEB1", Kind: entity.WarehouseKindUEB},
		{ID: "CC2", Kind: entity.WarehouseKindCasaCompra, ParentID: ptr("UEB1")},
		{ID: "CC1", Kind: entity.WarehouseKindCasaCompra, ParentID: ptr("UEB1")},
		{ID: "UEB2", Kind: entity.WarehouseKindUEB},
		{ID: "ALM", Kind: entity.WarehouseKindOther, ParentID: ptr("UEB2")},
	})

	assert.Equal(t, []string{"UEB1", "CC1", "CC2"}, idx.Subtree("UEB1"))
	assert.Equal(t, []string{"UEB2", "ALM"}, idx.Subtree("UEB2"))
	assert.Equal(t, []string{"CC1"}, idx.Subtree("CC1"))
	assert.Nil(t, idx.Subtree("NOPE"))
	assert.Equal(t, entity.WarehouseKindOther, idx.Get("ALM").Kind)
}

func TestValidateWarehouse(t *testing.T) {
	ueb := &entity.Warehouse{ID: "UEB1", Name: "UEB Centro", Kind: entity.WarehouseKindUEB}
	cc := &entity.Warehouse{ID: "CC1", Name: "Casa 1", Kind: entity.WarehouseKindCasaCompra, ParentID: ptr("UEB1")}

	assert.NoError(t, inventory.ValidateWarehouse(ueb, nil))
	assert.NoError(t, inventory.ValidateWarehouse(cc, ueb))

	assert.Error(t, inventory.ValidateWarehouse(cc, nil), "padre inexistente")
	other := &entity.Warehouse{ID: "X", Name: "X", Kind: entity.WarehouseKindOther, ParentID: ptr("CC1")}
	assert.Error(t, inventory.ValidateWarehouse(other, cc), "el padre debe ser UEB")
	bad := &entity.Warehouse{ID: "U2", Name: "U2", Kind: entity.WarehouseKindUEB, ParentID: ptr("UEB1")}
	assert.Error(t, inventory.ValidateWarehouse(bad, ueb), "una UEB no tiene padre")
	assert.Error(t, inventory.ValidateWarehouse(&entity.Warehouse{Name: "n", Kind: "BODEGA"}, nil))
}

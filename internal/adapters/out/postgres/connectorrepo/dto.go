// Package connectorrepo persists marketplace connectors.
package connectorrepo

import (
	"pickingpacking/internal/core/domain/model/connector"
	"pickingpacking/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type ConnectorDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name    string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Status  int       `gorm:"type:smallint;not null"`
	Command int       `gorm:"type:smallint;not null"`
}

func (ConnectorDTO) TableName() string {
	return "connectors"
}

func fromDomain(c *connector.Connector) ConnectorDTO {
	return ConnectorDTO{
		ID:      c.ID().Bytes(),
		Name:    c.Name(),
		Status:  int(c.Status()),
		Command: int(c.Command()),
	}
}

func toDomain(dto ConnectorDTO) (*connector.Connector, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return connector.RestoreConnector(id, dto.Name, connector.Status(dto.Status), connector.Command(dto.Command))
}

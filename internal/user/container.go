package user

import "gorm.io/gorm"

type UserContainer struct {
	Handler *Handler
	Service Service
}

func NewUserContainer(db *gorm.DB) *UserContainer {
	repo := NewRepository(db)
	service := NewService(repo)
	performance := NewPerformanceService(db)
	handler := NewHandler(service, performance)

	return &UserContainer{
		Handler: handler,
		Service: service,
	}
}

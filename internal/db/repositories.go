package db

import "gorm.io/gorm"

type Repositories struct {
	Users        *UserRepository
	Roles        *RoleRepository
	Applications *ApplicationRepository
	Messages     *MessageRepository
	Properties   *PropertyRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:        NewUserRepository(database),
		Roles:        NewRoleRepository(database),
		Applications: NewApplicationRepository(database),
		Messages:     NewMessageRepository(database),
		Properties:   NewPropertyRepository(database),
	}
}

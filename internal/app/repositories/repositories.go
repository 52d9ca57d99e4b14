package repositories

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository    *UserRepository
	ProjectRepository *ProjectRepository
	StudentRepository *StudentRepository
}

// NewRepositories initializes all repositories over one session source
func NewRepositories(sessions SessionSource) *Repositories {
	return &Repositories{
		UserRepository:    NewUserRepository(sessions),
		ProjectRepository: NewProjectRepository(sessions),
		StudentRepository: NewStudentRepository(sessions),
	}
}

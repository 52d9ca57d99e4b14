package services

// Services defined in this package:
// - AuthService: registration, login and token to user resolution
// - ProjectService: project CRUD and search
// - StudentService: student CRUD, search and per-project listing
// - HealthService: store reachability

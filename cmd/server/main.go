package main

import "github.com/init-pkg/mess-menu/internal/bootstrap"

//	@title		Mess Menu API
//	@version	1.0
//	@BasePath	/

func main() {
	bootstrap.Run()
}

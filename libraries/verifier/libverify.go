package main

import (
	"fmt"
	"unsafe"

	"gnark-bhp/libraries/verifier/impl"
)

// #include <stdlib.h>
import (
	"C"
)

func main() {}

//export InitVerifier
func InitVerifier(algorithm string, vk []byte) bool {
	if err := impl.InitVerifier(algorithm, vk); err != nil {
		fmt.Println(err)
		return false
	}
	return true
}

//export Verify
func Verify(params []byte) bool {
	return impl.Verify(params)
}

//export VFree
func VFree(pointer unsafe.Pointer) {
	C.free(pointer)
}

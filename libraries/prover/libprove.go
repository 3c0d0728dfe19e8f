package main

import (
	"encoding/json"
	"fmt"
	"unsafe"

	"gnark-bhp/libraries/prover/impl"
)

// #include <stdlib.h>
import (
	"C"
)

func main() {}

//export enforce_binding
func enforce_binding() {}

//export InitAlgorithm
func InitAlgorithm(algorithmID uint8) bool {
	return impl.InitAlgorithm(algorithmID)
}

//export Free
func Free(pointer unsafe.Pointer) {
	C.free(pointer)
}

//export Prove
func Prove(params []byte) (proofRes unsafe.Pointer, resLen int) {

	defer func() {
		if err := recover(); err != nil {
			fmt.Printf("%+v", err)
			bRes, er := json.Marshal(err)
			if er != nil {
				fmt.Println(er)
			} else {
				proofRes, resLen = C.CBytes(bRes), len(bRes)
			}
		}
	}()

	res := impl.Prove(params)
	return C.CBytes(res), len(res)
}

//export VerifyingKey
func VerifyingKey(algorithmID uint8) (vkRes unsafe.Pointer, resLen int) {
	res, err := impl.VerifyingKey(algorithmID)
	if err != nil {
		fmt.Println(err)
		return nil, 0
	}
	return C.CBytes(res), len(res)
}

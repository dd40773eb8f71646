// Command hashpw prints a bcrypt hash for OPERATOR_PASSWORD_HASH.
//
//	hashpw [-cost N] password
//	echo -n password | hashpw
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/iliyamo/coworking-reservation/internal/utils"
)

func main() {
	cost := flag.Int("cost", 12, "bcrypt cost")
	flag.Parse()

	var plain string
	if flag.NArg() > 0 {
		plain = flag.Arg(0)
	} else {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			log.Fatalf("hashpw: read password: %v", err)
		}
		plain = strings.TrimRight(line, "\r\n")
	}
	if plain == "" {
		log.Fatal("hashpw: empty password")
	}
	hash, err := utils.HashPassword(plain, *cost)
	if err != nil {
		log.Fatalf("hashpw: %v", err)
	}
	fmt.Println(hash)
}

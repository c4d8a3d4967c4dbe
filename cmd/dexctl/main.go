// Command dexctl is a thin TCP client for dexd: it encodes one operation
// from CLI flags, sends it, and prints whatever report comes back.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/haardikk21/enshrined-dex/internal/common"
	"github.com/haardikk21/enshrined-dex/internal/wire"
)

func main() {
	serverAddr := flag.String("server", "127.0.0.1:9001", "address of the dexd server")
	action := flag.String("action", "quote", "action to perform: create-pair, place, cancel, swap, quote")

	trader := flag.String("trader", "0x0000000000000000000000000000000000000001", "trader address")
	tokenIn := flag.String("token-in", "", "token_in / base address")
	tokenOut := flag.String("token-out", "", "token_out / quote address")
	side := flag.String("side", "buy", "order side: buy or sell")
	amount := flag.String("amount", "0", "amount, in the token's smallest unit")
	priceNum := flag.String("price-num", "1", "price numerator")
	priceDenom := flag.String("price-denom", "1", "price denominator")
	minOut := flag.String("min-out", "0", "minimum acceptable output for a swap")
	orderId := flag.Uint64("order-id", 0, "order id to cancel")

	flag.Parse()

	conn, err := net.Dial("tcp", *serverAddr)
	if err != nil {
		log.Fatalf("failed to connect to %s: %v", *serverAddr, err)
	}
	defer conn.Close()

	traderAddr := parseAddress(*trader)
	inAddr := parseAddress(*tokenIn)
	outAddr := parseAddress(*tokenOut)

	var buf []byte
	switch strings.ToLower(*action) {
	case "create-pair":
		buf = wire.EncodeCreatePair(wire.CreatePairOp{Token0: inAddr, Token1: outAddr})
	case "place":
		buf = wire.EncodePlaceLimitOrder(wire.PlaceLimitOrderOp{
			Trader:     traderAddr,
			TokenIn:    inAddr,
			TokenOut:   outAddr,
			IsBuy:      strings.ToLower(*side) == "buy",
			Amount:     parseAmount(*amount),
			PriceNum:   parseAmount(*priceNum),
			PriceDenom: parseAmount(*priceDenom),
		})
	case "cancel":
		buf = wire.EncodeCancelOrder(wire.CancelOrderOp{
			Trader:  traderAddr,
			Base:    inAddr,
			Quote:   outAddr,
			OrderId: common.OrderId(*orderId),
		})
	case "swap":
		buf = wire.EncodeSwap(wire.SwapOp{
			Trader:       traderAddr,
			TokenIn:      inAddr,
			TokenOut:     outAddr,
			AmountIn:     parseAmount(*amount),
			MinAmountOut: parseAmount(*minOut),
		})
	case "quote":
		buf = wire.EncodeGetQuote(wire.GetQuoteOp{
			TokenIn:  inAddr,
			TokenOut: outAddr,
			AmountIn: parseAmount(*amount),
		})
	default:
		log.Fatalf("unknown action: %s", *action)
	}

	if _, err := conn.Write(buf); err != nil {
		log.Fatalf("failed to send operation: %v", err)
	}

	readReport(conn)
}

func parseAddress(s string) common.TokenId {
	if s == "" {
		return common.TokenId{}
	}
	bytes, err := hexutil.Decode(s)
	if err != nil {
		log.Fatalf("invalid address %q: %v", s, err)
	}
	var addr common.TokenId
	copy(addr[:], bytes)
	return addr
}

func parseAmount(s string) common.Amount {
	var a uint256.Int
	if _, err := a.SetFromDecimal(s); err != nil {
		log.Fatalf("invalid amount %q: %v", s, err)
	}
	return a
}

// readReport reads a single report payload off the connection and prints
// it. Report shapes share a 1-byte type tag; only a handful of fields are
// decoded here for display purposes.
func readReport(conn net.Conn) {
	buf := make([]byte, 4*1024)
	n, err := conn.Read(buf)
	if err != nil {
		fmt.Printf("connection closed before a report arrived: %v\n", err)
		os.Exit(0)
	}

	if n < 1 {
		fmt.Println("empty report")
		return
	}

	switch wire.ReportType(buf[0]) {
	case wire.ReportError:
		msgLen := binary.BigEndian.Uint32(buf[1:5])
		fmt.Printf("[ERROR] %s\n", string(buf[5:5+msgLen]))
	case wire.ReportPairCreated:
		fmt.Printf("[PAIR CREATED] %x\n", buf[41:73])
	case wire.ReportOrderPlaced:
		fmt.Println("[ORDER PLACED]")
	case wire.ReportOrderCancelled:
		fmt.Println("[ORDER CANCELLED]")
	case wire.ReportSwap:
		fmt.Println("[SWAP / QUOTE]")
	default:
		fmt.Printf("unrecognized report type %d\n", buf[0])
	}
}
